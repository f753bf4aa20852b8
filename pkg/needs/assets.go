package needs

import (
	"sync"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/errors"
	"github.com/matzehuels/needful/pkg/web"
)

// Assets holds the named resources of one module. Its library, when the
// module has a static folder, is named after the module.
type Assets struct {
	module  web.Module
	library *asset.Library

	mu        sync.RWMutex
	resources map[string]asset.Dependency
}

// New returns the Assets of m and binds them to m's App (see [Assets.Init]).
// A nil m leaves them unbound until Init is called.
func New(m web.Module) (*Assets, error) {
	a := &Assets{resources: make(map[string]asset.Dependency)}
	if m == nil {
		return a, nil
	}
	if err := a.Init(m); err != nil {
		return nil, err
	}
	return a, nil
}

// Init binds a to m's App, creating the App's [Manager] on first use. For
// a Blueprint the binding happens when it is first registered. Init also
// adopts m as a's module if none is set yet.
func (a *Assets) Init(m web.Module) error {
	if a.module == nil {
		if err := a.adopt(m); err != nil {
			return err
		}
	}
	return m.OnRegister(func(s web.SetupState) error {
		mgr, err := ManagerFor(s.App)
		if err != nil {
			return err
		}
		key := ""
		if s.Blueprint != nil {
			key = s.Blueprint.Name()
		}
		mgr.register(key, a)
		return nil
	})
}

func (a *Assets) adopt(m web.Module) error {
	a.module = m
	if m.Static() == nil {
		return nil
	}
	lib, err := asset.NewLibrary(m.ModuleName(), m.Static())
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "static library for %q", m.ModuleName())
	}
	a.library = lib
	return nil
}

// Module returns the module a belongs to, or nil.
func (a *Assets) Module() web.Module { return a.module }

// Library returns the module's static library, or nil.
func (a *Assets) Library() *asset.Library { return a.library }

// Resource declares a file of the module's static folder as a resource.
func (a *Assets) Resource(path string, opts ...asset.ResourceOption) (*asset.Resource, error) {
	if a.module == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "cannot provide resources: not initialized with an app")
	}
	if a.library == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "cannot provide resources: %q does not have a static folder", a.module.ModuleName())
	}
	return asset.NewResource(a.library, path, opts...)
}

// NamedResource declares a resource and registers it under name,
// replacing any earlier registration.
func (a *Assets) NamedResource(name, path string, opts ...asset.ResourceOption) (*asset.Resource, error) {
	if err := errors.ValidateName("resource", name); err != nil {
		return nil, err
	}
	r, err := a.Resource(path, opts...)
	if err != nil {
		return nil, err
	}
	a.put(name, r)
	return r, nil
}

// Group registers a group under name. Items are local names (string) or
// asset.Dependency values.
func (a *Assets) Group(name string, items ...any) (*asset.Group, error) {
	if err := errors.ValidateName("group", name); err != nil {
		return nil, err
	}
	deps := make([]asset.Dependency, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			d, err := a.Lookup(v)
			if err != nil {
				return nil, err
			}
			deps = append(deps, d)
		case asset.Dependency:
			deps = append(deps, v)
		default:
			return nil, errors.New(errors.ErrCodeInvalidResource, "group %q: cannot use %T as a dependency", name, it)
		}
	}
	g := asset.NewGroup(deps...)
	a.put(name, g)
	return g, nil
}

// Lookup returns the resource or group registered under name.
func (a *Assets) Lookup(name string) (asset.Dependency, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	d, ok := a.resources[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeResourceNotFound, "no resource named %q in %s", name, a.describe())
	}
	return d, nil
}

// Names returns the registered local names.
func (a *Assets) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, 0, len(a.resources))
	for name := range a.resources {
		out = append(out, name)
	}
	return out
}

func (a *Assets) put(name string, d asset.Dependency) {
	a.mu.Lock()
	a.resources[name] = d
	a.mu.Unlock()
}

func (a *Assets) describe() string {
	if a.module == nil {
		return "unbound assets"
	}
	return "module " + a.module.ModuleName()
}
