// Package needs connects the asset layer to web applications.
//
// Each module (the App or a Blueprint) gets an [Assets] registry of local
// resource names. The first registration creates a [Manager] on the App,
// which:
//
//   - gives every request a fresh needed set ([Context]),
//   - closes that set when the request ends,
//   - mounts an asset publisher at /<publisher_signature>,
//   - adds the template functions needs, needs_top and needs_bottom.
//
// # Declaring resources
//
//	assets, err := needs.New(app) // app has a static folder
//	assets.NamedResource("app_js", "app.js", asset.DependsOn(jquery))
//
// # Needing resources
//
// Templates name what they need and place the markup:
//
//	{{needs "app_js" ".widget_css" "jquery:jquery.js"}}
//	<head>{{needs_top}}</head>
//	<body>... {{needs_bottom}}</body>
//
// Names are resolved by [ParseRef]. A "library:path" name bypasses module
// registries. Otherwise the text before the last dot names the blueprint:
// "bp.name" is bp's, ".name" is the blueprint handling the request, and a
// name without a dot belongs to the App.
//
// Needs must be declared before the markup is read. The first read of
// either fragment renders both, and any later need fails with
// INVALID_STATE.
package needs
