// Package asset publishes client-side resources (scripts and stylesheets)
// and renders the markup that includes them in a page.
//
// # Model
//
// A [Library] is a named directory of files, given as an fs.FS. A [Resource]
// is one file in a library together with the resources it depends on. A
// [Group] bundles resources that are needed together. Resources and groups
// both satisfy [Dependency].
//
//	lib, _ := asset.NewLibrary("jquery", os.DirFS("vendor/jquery"))
//	jquery, _ := asset.NewResource(lib, "jquery.js", asset.Minified("jquery.min.js"))
//	ui, _ := asset.NewResource(lib, "ui.js", asset.DependsOn(jquery), asset.Bottom())
//
// # Needing
//
// A [Needed] collects the dependencies one response asks for. It lives in
// the request context ([WithNeeded], [NeededFromContext]) so handlers can
// write ui.Need(r.Context()). [Needed.Render] expands the transitive
// dependencies. It orders them so every dependency precedes its dependents,
// with stylesheets ahead of scripts where the graph allows, and returns two
// markup fragments: one for the document head and one for the end of the
// body.
//
// # Publishing
//
// A [Publisher] is an http.Handler serving /<library>/<path> out of a
// [Registry]. With [Options.Versioning] the rendered URLs carry a
// /:version:<hash>/ segment derived from the library contents. The
// publisher strips it and marks such responses as immutable.
package asset
