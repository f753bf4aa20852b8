package needs

import (
	"context"
	"html/template"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/cache"
	"github.com/matzehuels/needful/pkg/errors"
	"github.com/matzehuels/needful/pkg/web"
)

// ExtensionKey is the key the [Manager] is stored under in the App's
// extensions.
const ExtensionKey = "needful"

// Manager resolves resource names for one App and runs the per-request
// lifecycle. There is one per App, created by [ManagerFor].
type Manager struct {
	app      *web.App
	opts     asset.Options
	registry *asset.Registry
	logger   *log.Logger
	initErr  error

	mu    sync.RWMutex
	cache cache.Cache
	sets  map[string]*Assets
}

// ManagerFor returns app's Manager, creating it on first use. Creation
// validates the App's needs options, installs the request hooks and the
// template functions, and mounts the publisher. A creation error is
// returned on every call.
func ManagerFor(app *web.App) (*Manager, error) {
	m := app.Extension(ExtensionKey, func() any { return newManager(app) }).(*Manager)
	return m, m.initErr
}

func newManager(app *web.App) *Manager {
	m := &Manager{
		app:      app,
		opts:     app.Config().Needs,
		registry: asset.NewChildRegistry(asset.DefaultRegistry),
		logger:   app.Logger().WithPrefix("needs"),
		cache:    cache.NewNullCache(),
		sets:     make(map[string]*Assets),
	}
	if err := m.opts.Validate(); err != nil {
		m.initErr = err
		return m
	}
	mountAt := "/" + m.opts.Signature()
	if err := app.Mount(mountAt, asset.NewPublisher(m.registry)); err != nil {
		m.initErr = errors.Wrap(errors.ErrCodeConfiguration, err, "mount publisher")
		return m
	}
	app.BeforeRequest(m.beforeRequest)
	app.TeardownRequest(m.teardownRequest)
	app.TemplateFuncs(m.templateFuncs)
	m.logger.Debug("publisher mounted", "app", app.Name(), "at", mountAt)
	return m
}

// Options returns the options every request's needed set renders with.
func (m *Manager) Options() asset.Options { return m.opts }

// Registry returns the libraries the publisher serves: the modules' static
// libraries, falling back to [asset.DefaultRegistry].
func (m *Manager) Registry() *asset.Registry { return m.registry }

// SetCache sets where library fingerprints are stored. The default keeps
// nothing beyond the per-process memo.
func (m *Manager) SetCache(c cache.Cache) {
	if c == nil {
		c = cache.NewNullCache()
	}
	m.mu.Lock()
	m.cache = c
	m.mu.Unlock()
}

// Assets returns the registry of the given module ("" for the App).
func (m *Manager) Assets(module string) (*Assets, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.sets[module]
	return a, ok
}

// Modules returns the registered module names, sorted. The App is "".
func (m *Manager) Modules() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sets))
	for k := range m.sets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) register(module string, a *Assets) {
	m.mu.Lock()
	m.sets[module] = a
	m.mu.Unlock()
	if a.library != nil {
		m.registry.Add(a.library)
	}
	m.logger.Debug("registered assets", "module", moduleLabel(module), "static", a.library != nil)
}

// Resolve finds what ref names. A [LocalRef] with Current set reads the
// blueprint handling the request in ctx.
func (m *Manager) Resolve(ctx context.Context, ref Ref) (asset.Dependency, error) {
	switch r := ref.(type) {
	case QualifiedRef:
		res, err := m.registry.Lookup(r.Library, r.Path)
		if err != nil {
			return nil, err
		}
		return res, nil
	case LocalRef:
		module := r.Module
		if r.Current {
			module = web.CurrentBlueprint(ctx)
		}
		a, ok := m.Assets(module)
		if !ok {
			return nil, errors.New(errors.ErrCodeModuleNotFound, "no resources registered for %s (resolving %q)", moduleLabel(module), ref)
		}
		return a.Lookup(r.Name)
	}
	return nil, errors.New(errors.ErrCodeInvalidName, "unsupported reference %T", ref)
}

func (m *Manager) beforeRequest(ctx context.Context) (context.Context, error) {
	m.mu.RLock()
	c := m.cache
	m.mu.RUnlock()

	needed := asset.NewNeeded(m.opts, c)
	ctx = asset.WithNeeded(ctx, needed)
	nc := &Context{manager: m, needed: needed}
	ctx = context.WithValue(ctx, contextKey{}, nc)
	nc.ctx = ctx
	return ctx, nil
}

func (m *Manager) teardownRequest(ctx context.Context, _ error) {
	if nc, ok := FromContext(ctx); ok {
		nc.needed.Close("the request has ended")
	}
}

var errNoContext = errors.New(errors.ErrCodeInvalidState, "no resource context: request did not pass through the needs hooks")

func (m *Manager) templateFuncs(ctx context.Context) template.FuncMap {
	nc, _ := FromContext(ctx)
	return template.FuncMap{
		"needs": func(names ...string) (template.HTML, error) {
			if nc == nil {
				return "", errNoContext
			}
			return nc.Need(names...)
		},
		"needs_top": func() (template.HTML, error) {
			if nc == nil {
				return "", errNoContext
			}
			return nc.Top()
		},
		"needs_bottom": func() (template.HTML, error) {
			if nc == nil {
				return "", errNoContext
			}
			return nc.Bottom()
		},
	}
}

func moduleLabel(module string) string {
	if module == "" {
		return "the app"
	}
	return "blueprint " + module
}
