package web

import "io/fs"

// Module is implemented by [App] and [Blueprint].
type Module interface {
	// ModuleName is the App or Blueprint name.
	ModuleName() string
	// Static returns the module's static filesystem, or nil.
	Static() fs.FS
	// OnRegister calls fn once the owning App is known: immediately for an
	// App, and on the first registration of a Blueprint with each App.
	// Errors from immediate calls are returned; later ones fail the
	// blueprint registration.
	OnRegister(fn SetupFunc) error
}

// SetupState describes a module binding to an App.
type SetupState struct {
	App *App
	// Blueprint is nil when the module is the App itself.
	Blueprint *Blueprint
	// Prefix is the URL prefix the blueprint was registered under.
	Prefix string
}

// SetupFunc binds a module to its App.
type SetupFunc func(SetupState) error

var (
	_ Module = (*App)(nil)
	_ Module = (*Blueprint)(nil)
)
