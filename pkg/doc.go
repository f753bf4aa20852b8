// Package pkg provides the libraries behind needful.
//
// # Overview
//
// needful lets a Go web application declare, per response, which scripts
// and stylesheets the page needs. The declared resources are published
// under one URL prefix and rendered as <link> and <script> markup at the
// top and bottom of the page, dependencies first. The pkg directory is
// organized into three areas:
//
//  1. Publishing: [asset] (libraries, resources, needed sets, publisher)
//     and [dag] (dependency ordering and DOT/SVG export)
//  2. Wiring: [web] (App, Blueprint, request lifecycle, templates) and
//     [needs] (per-module registries, name resolution, request context)
//  3. Infrastructure: [cache], [config], [manifest], [errors] and
//     [observability]
//
// # Architecture
//
// The flow of one request:
//
//	before-request hook
//	         ↓
//	    [needs] Context (fresh asset.Needed for the request)
//	         ↓
//	    handler / template calls needs "name" ...
//	         ↓
//	    needs_top / needs_bottom → [asset] Needed.Render
//	         ↓
//	    teardown hook closes the Needed
//
// # Quick Start
//
//	app := web.NewApp("shop", web.WithStatic(staticFS), web.WithTemplates(tmplFS, "*.html"))
//	assets, _ := needs.New(app)
//	css, _ := assets.NamedResource("style", "style.css")
//	assets.NamedResource("app", "app.js", asset.DependsOn(css))
//
//	app.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    needs.Need(r.Context(), "app")
//	    app.Render(w, r, "index.html", nil)
//	})
//
// and in index.html:
//
//	<head>{{needs_top}}</head>
//	<body>...{{needs_bottom}}</body>
//
// [asset]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/asset
// [dag]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/dag
// [web]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/web
// [needs]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/needs
// [cache]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/config
// [manifest]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/manifest
// [errors]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/needful/pkg/observability
package pkg
