package web

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/needful/pkg/config"
	"github.com/matzehuels/needful/pkg/errors"
)

// BeforeFunc runs before each request handler. The returned context
// replaces the request context. A non-nil error aborts the request with 500.
type BeforeFunc func(ctx context.Context) (context.Context, error)

// TeardownFunc runs after each request. err is the before-hook failure or
// recovered panic, if any.
type TeardownFunc func(ctx context.Context, err error)

// FuncProvider returns template functions bound to a request context. It
// is also called once with a background context when templates are parsed,
// so it must not assume request state is present.
type FuncProvider func(ctx context.Context) template.FuncMap

// App is a web application. Configure it (routes, hooks, mounts,
// blueprints) before serving; the configuration is not safe to change
// concurrently with requests.
type App struct {
	name   string
	static fs.FS
	cfg    *config.Config
	logger *log.Logger

	router     *chi.Mux
	mounts     []mount
	before     []BeforeFunc
	teardown   []TeardownFunc
	blueprints map[string]*Blueprint

	extMu      sync.Mutex
	extensions map[string]any

	tmplFS       fs.FS
	tmplPatterns []string
	funcs        []FuncProvider
	tmplOnce     sync.Once
	tmpl         *template.Template
	tmplErr      error

	buildOnce sync.Once
	handler   http.Handler
}

type mount struct {
	prefix  string
	handler http.Handler
}

// Option configures an App.
type Option func(*App)

// WithStatic sets the App's static filesystem.
func WithStatic(fsys fs.FS) Option {
	return func(a *App) { a.static = fsys }
}

// WithConfig sets the App's configuration. The default is [config.Default].
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		if cfg != nil {
			a.cfg = cfg
		}
	}
}

// WithLogger sets the App's logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTemplates sets where templates are parsed from. Patterns follow
// [template.ParseFS].
func WithTemplates(fsys fs.FS, patterns ...string) Option {
	return func(a *App) {
		a.tmplFS = fsys
		a.tmplPatterns = patterns
	}
}

// NewApp creates an App.
func NewApp(name string, opts ...Option) *App {
	a := &App{
		name:       name,
		cfg:        config.Default(),
		logger:     log.Default(),
		router:     chi.NewRouter(),
		blueprints: make(map[string]*Blueprint),
		extensions: make(map[string]any),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.router.Use(a.lifecycle)
	return a
}

// Name returns the App name.
func (a *App) Name() string { return a.name }

// ModuleName returns the App name.
func (a *App) ModuleName() string { return a.name }

// Static returns the App's static filesystem, or nil.
func (a *App) Static() fs.FS { return a.static }

// OnRegister calls fn immediately with the App itself.
func (a *App) OnRegister(fn SetupFunc) error { return fn(SetupState{App: a}) }

// Config returns the App configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the App logger.
func (a *App) Logger() *log.Logger { return a.logger }

// Router exposes the underlying router for middleware and advanced routing.
func (a *App) Router() chi.Router { return a.router }

// Get routes GET requests for pattern.
func (a *App) Get(pattern string, h http.HandlerFunc) { a.router.Get(pattern, h) }

// Post routes POST requests for pattern.
func (a *App) Post(pattern string, h http.HandlerFunc) { a.router.Post(pattern, h) }

// Handle routes all methods for pattern.
func (a *App) Handle(pattern string, h http.Handler) { a.router.Handle(pattern, h) }

// BeforeRequest appends a before-request hook.
func (a *App) BeforeRequest(fn BeforeFunc) { a.before = append(a.before, fn) }

// TeardownRequest appends a teardown hook.
func (a *App) TeardownRequest(fn TeardownFunc) { a.teardown = append(a.teardown, fn) }

// Mount attaches h at prefix, outside the request lifecycle. Requests under
// prefix reach h with the full path unchanged; use [http.StripPrefix] or a
// chi router to match relative paths. Mount fails once the handler has been
// built or when prefix is already taken.
func (a *App) Mount(prefix string, h http.Handler) error {
	if a.handler != nil {
		return errors.New(errors.ErrCodeInvalidState, "mount %s: app %q is already serving", prefix, a.name)
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return errors.New(errors.ErrCodeConfiguration, "mount: prefix must not be the root")
	}
	for _, m := range a.mounts {
		if m.prefix == prefix {
			return errors.New(errors.ErrCodeConfiguration, "mount: prefix %s already in use", prefix)
		}
	}
	a.mounts = append(a.mounts, mount{prefix: prefix, handler: h})
	return nil
}

// Mounted reports whether a handler is mounted at prefix.
func (a *App) Mounted(prefix string) bool {
	prefix = "/" + strings.Trim(prefix, "/")
	for _, m := range a.mounts {
		if m.prefix == prefix {
			return true
		}
	}
	return false
}

// Extension returns the value stored under key, calling create to store
// one first if none exists.
func (a *App) Extension(key string, create func() any) any {
	a.extMu.Lock()
	defer a.extMu.Unlock()
	if v, ok := a.extensions[key]; ok {
		return v
	}
	if create == nil {
		return nil
	}
	v := create()
	a.extensions[key] = v
	return v
}

// Handler returns the App's HTTP handler. The first call freezes the mount
// table.
func (a *App) Handler() http.Handler {
	a.buildOnce.Do(func() {
		if len(a.mounts) == 0 {
			a.handler = a.router
			return
		}
		outer := chi.NewRouter()
		for _, m := range a.mounts {
			outer.Mount(m.prefix, m.handler)
		}
		outer.Mount("/", a.router)
		a.handler = outer
	})
	return a.handler
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Handler().ServeHTTP(w, r)
}
