package asset

import (
	"context"
	"path"

	"github.com/matzehuels/needful/pkg/errors"
)

// Kind is the type of a resource, derived from its file extension.
type Kind int

const (
	KindCSS Kind = iota
	KindJS
)

// String returns the extension-style name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindJS:
		return "js"
	}
	return "unknown"
}

var kindByExt = map[string]Kind{
	".css": KindCSS,
	".js":  KindJS,
}

// Dependency is anything that can be needed: a [Resource] or a [Group].
type Dependency interface {
	// Resources returns the resources this dependency stands for, in order.
	Resources() []*Resource
	// Need adds the dependency to the [Needed] stored in ctx.
	Need(ctx context.Context) error
}

// Resource is a single file in a library plus the resources it depends on.
// Resources are immutable once created.
type Resource struct {
	library  *Library
	path     string
	kind     Kind
	depends  []*Resource
	bottom   bool
	minified string
	debug    string
}

// ResourceOption configures a resource at declaration time.
type ResourceOption func(*Resource)

// DependsOn declares resources that must be included before this one.
// Groups contribute all of their resources.
func DependsOn(deps ...Dependency) ResourceOption {
	return func(r *Resource) {
		for _, d := range deps {
			r.depends = append(r.depends, d.Resources()...)
		}
	}
}

// Bottom marks a script as safe to include at the end of the body.
func Bottom() ResourceOption {
	return func(r *Resource) { r.bottom = true }
}

// Minified names the file to use in minified mode.
func Minified(path string) ResourceOption {
	return func(r *Resource) { r.minified = path }
}

// Debug names the file to use in debug mode.
func Debug(path string) ResourceOption {
	return func(r *Resource) { r.debug = path }
}

// NewResource declares the file at relpath in lib. The file does not need to
// exist yet; only its extension is checked.
func NewResource(lib *Library, relpath string, opts ...ResourceOption) (*Resource, error) {
	if lib == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "resource %q declared without a library", relpath)
	}
	if err := errors.ValidatePath(relpath); err != nil {
		return nil, err
	}
	kind, ok := kindByExt[path.Ext(relpath)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidResource, "no renderer for %q (want .css or .js)", relpath)
	}

	r := &Resource{library: lib, path: relpath, kind: kind}
	for _, opt := range opts {
		opt(r)
	}
	for _, alt := range []string{r.minified, r.debug} {
		if alt == "" {
			continue
		}
		if err := errors.ValidatePath(alt); err != nil {
			return nil, err
		}
		if path.Ext(alt) != path.Ext(relpath) {
			return nil, errors.New(errors.ErrCodeInvalidResource, "variant %q of %q has a different extension", alt, relpath)
		}
	}
	for _, d := range r.depends {
		if d == r {
			return nil, errors.New(errors.ErrCodeDependencyCycle, "resource %s depends on itself", r)
		}
	}

	if err := lib.register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Library returns the owning library.
func (r *Resource) Library() *Library { return r.library }

// Path returns the declared path within the library.
func (r *Resource) Path() string { return r.path }

// Kind returns the resource kind.
func (r *Resource) Kind() Kind { return r.kind }

// Depends returns the direct dependencies.
func (r *Resource) Depends() []*Resource { return r.depends }

// IsBottom reports whether the resource was declared with [Bottom].
func (r *Resource) IsBottom() bool { return r.bottom }

// PathFor returns the file to serve in the given mode, falling back to the
// declared path when the resource has no such variant.
func (r *Resource) PathFor(m Mode) string {
	switch {
	case m == ModeMinified && r.minified != "":
		return r.minified
	case m == ModeDebug && r.debug != "":
		return r.debug
	}
	return r.path
}

// String returns the qualified "library:path" reference for the resource.
func (r *Resource) String() string { return r.library.name + ":" + r.path }

// Resources returns the resource itself.
func (r *Resource) Resources() []*Resource { return []*Resource{r} }

// Need adds the resource to the request's needed set.
func (r *Resource) Need(ctx context.Context) error { return needIn(ctx, r) }

func needIn(ctx context.Context, d Dependency) error {
	n, ok := NeededFromContext(ctx)
	if !ok {
		return errors.New(errors.ErrCodeInvalidState, "no needed resources in context")
	}
	return n.Need(d)
}
