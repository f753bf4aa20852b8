// Package web is a small application framework over chi.
//
// An [App] owns a router, a set of request lifecycle hooks, sub-handlers
// mounted outside that lifecycle, named extensions and a lazily parsed
// html/template set. A [Blueprint] is a named group of routes with its own
// optional static filesystem, registered onto an App under a URL prefix.
//
// # Request lifecycle
//
// Every request routed through the App gets a request state carrying a
// request id ([RequestID]) and, when routed through a blueprint, the
// blueprint's name ([CurrentBlueprint]). Before-request hooks run in
// registration order and may replace the request context. Teardown hooks
// run in reverse order after the handler, whether it returned normally,
// failed a before hook, or panicked. A panic is answered with 500.
//
//	app := web.NewApp("shop", web.WithStatic(staticFS), web.WithTemplates(tmplFS, "*.html"))
//	app.BeforeRequest(func(ctx context.Context) (context.Context, error) { ... })
//	app.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    app.Render(w, r, "index.html", nil)
//	})
//	http.ListenAndServe(":8080", app)
//
// # Mounted handlers
//
// [App.Mount] attaches a handler at a path prefix in front of the App's
// router. Mounted handlers see the unmodified request and skip the
// lifecycle hooks.
//
// # Modules
//
// App and Blueprint both implement [Module], which lets extensions bind to
// either and run setup once the owning App is known.
package web
