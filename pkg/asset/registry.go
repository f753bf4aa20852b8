package asset

import (
	"strings"
	"sync"

	"github.com/matzehuels/needful/pkg/errors"
)

// Registry maps library names to libraries.
type Registry struct {
	mu     sync.RWMutex
	libs   map[string]*Library
	order  []string
	parent *Registry
}

// DefaultRegistry holds libraries registered process-wide, typically from
// init functions of packages that bundle third-party assets.
var DefaultRegistry = NewRegistry()

// Register adds lib to [DefaultRegistry].
func Register(lib *Library) { DefaultRegistry.Add(lib) }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{libs: make(map[string]*Library)}
}

// NewChildRegistry returns an empty registry that falls back to parent for
// libraries it does not hold itself.
func NewChildRegistry(parent *Registry) *Registry {
	r := NewRegistry()
	r.parent = parent
	return r
}

// Add registers lib, replacing any library of the same name.
func (r *Registry) Add(lib *Library) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.libs[lib.name]; !exists {
		r.order = append(r.order, lib.name)
	}
	r.libs[lib.name] = lib
}

// Library returns the library registered under name.
func (r *Registry) Library(name string) (*Library, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lib, ok := r.libs[name]
	if !ok && r.parent != nil {
		return r.parent.Library(name)
	}
	return lib, ok
}

// Libraries returns all libraries in registration order, followed by the
// parent's libraries that are not shadowed.
func (r *Registry) Libraries() []*Library {
	r.mu.RLock()
	out := make([]*Library, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.libs[name])
	}
	r.mu.RUnlock()
	if r.parent == nil {
		return out
	}
	for _, lib := range r.parent.Libraries() {
		if _, shadowed := r.own(lib.name); !shadowed {
			out = append(out, lib)
		}
	}
	return out
}

func (r *Registry) own(name string) (*Library, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lib, ok := r.libs[name]
	return lib, ok
}

// Clone returns a registry holding the same libraries and parent. Adding to
// the clone does not affect r.
func (r *Registry) Clone() *Registry {
	c := NewChildRegistry(r.parent)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		c.Add(r.libs[name])
	}
	return c
}

// Lookup finds the resource declared at path in the named library.
func (r *Registry) Lookup(library, path string) (*Resource, error) {
	lib, ok := r.Library(library)
	if !ok {
		return nil, errors.New(errors.ErrCodeLibraryNotFound, "no library %q", library)
	}
	res, ok := lib.Resource(path)
	if !ok {
		return nil, errors.New(errors.ErrCodeResourceNotFound, "no resource %q in library %q", path, library)
	}
	return res, nil
}

// LookupRef finds a resource by its "library:path" reference.
func (r *Registry) LookupRef(ref string) (*Resource, error) {
	library, path, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidName, "reference %q is not of the form library:path", ref)
	}
	return r.Lookup(library, path)
}
