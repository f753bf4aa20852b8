package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/needful/pkg/errors"
)

// Blueprint is a named set of routes registered onto an App under a prefix.
type Blueprint struct {
	name   string
	static fs.FS
	routes []route

	mu       sync.Mutex
	deferred []SetupFunc
	apps     map[*App]SetupState
}

type route struct {
	method  string
	pattern string
	handler http.Handler
}

// BlueprintOption configures a Blueprint.
type BlueprintOption func(*Blueprint)

// WithBlueprintStatic sets the blueprint's static filesystem.
func WithBlueprintStatic(fsys fs.FS) BlueprintOption {
	return func(b *Blueprint) { b.static = fsys }
}

// NewBlueprint creates a Blueprint. The name is validated on registration.
func NewBlueprint(name string, opts ...BlueprintOption) *Blueprint {
	b := &Blueprint{name: name, apps: make(map[*App]SetupState)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the blueprint name.
func (b *Blueprint) Name() string { return b.name }

// ModuleName returns the blueprint name.
func (b *Blueprint) ModuleName() string { return b.name }

// Static returns the blueprint's static filesystem, or nil.
func (b *Blueprint) Static() fs.FS { return b.static }

// Get routes GET requests for pattern, relative to the registration prefix.
func (b *Blueprint) Get(pattern string, h http.HandlerFunc) {
	b.routes = append(b.routes, route{method: http.MethodGet, pattern: pattern, handler: h})
}

// Post routes POST requests for pattern.
func (b *Blueprint) Post(pattern string, h http.HandlerFunc) {
	b.routes = append(b.routes, route{method: http.MethodPost, pattern: pattern, handler: h})
}

// Handle routes all methods for pattern.
func (b *Blueprint) Handle(pattern string, h http.Handler) {
	b.routes = append(b.routes, route{pattern: pattern, handler: h})
}

// RecordOnce defers fn until the blueprint is first registered with an
// App. Apps it is already registered with get the call immediately, and
// the first error from those calls is returned.
func (b *Blueprint) RecordOnce(fn SetupFunc) error {
	b.mu.Lock()
	b.deferred = append(b.deferred, fn)
	bound := make([]SetupState, 0, len(b.apps))
	for _, s := range b.apps {
		bound = append(bound, s)
	}
	b.mu.Unlock()
	for _, s := range bound {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

// OnRegister is [Blueprint.RecordOnce].
func (b *Blueprint) OnRegister(fn SetupFunc) error { return b.RecordOnce(fn) }

// RegisterBlueprint routes bp's handlers under prefix. Requests routed
// there carry the blueprint name (see [CurrentBlueprint]). Deferred setup
// functions run on the blueprint's first registration with a; the first
// one to fail aborts and its error is returned.
func (a *App) RegisterBlueprint(bp *Blueprint, prefix string) error {
	if err := errors.ValidateName("blueprint", bp.name); err != nil {
		return err
	}
	if other, ok := a.blueprints[bp.name]; ok && other != bp {
		return errors.New(errors.ErrCodeConfiguration, "a different blueprint is already registered as %q", bp.name)
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	mark := markBlueprint(bp.name)
	register := func(r chi.Router) {
		r.Use(mark)
		for _, rt := range bp.routes {
			if rt.method == "" {
				r.Handle(rt.pattern, rt.handler)
			} else {
				r.Method(rt.method, rt.pattern, rt.handler)
			}
		}
	}
	if prefix == "" {
		a.router.Group(register)
	} else {
		a.router.Route(prefix, register)
	}
	a.blueprints[bp.name] = bp

	state := SetupState{App: a, Blueprint: bp, Prefix: prefix}
	bp.mu.Lock()
	_, seen := bp.apps[a]
	if !seen {
		bp.apps[a] = state
	}
	deferred := append([]SetupFunc{}, bp.deferred...)
	bp.mu.Unlock()

	a.logger.Debug("registered blueprint", "app", a.name, "blueprint", bp.name, "prefix", prefix)
	if seen {
		return nil
	}
	for _, fn := range deferred {
		if err := fn(state); err != nil {
			return fmt.Errorf("register blueprint %s: %w", bp.name, err)
		}
	}
	return nil
}

// Blueprint returns the blueprint registered under name.
func (a *App) Blueprint(name string) (*Blueprint, bool) {
	bp, ok := a.blueprints[name]
	return bp, ok
}
