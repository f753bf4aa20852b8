package asset

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/needful/pkg/errors"
)

const (
	versionPrefix = ":version:"
	// immutableCache is sent for fingerprinted URLs; their content never changes.
	immutableCache = "public, max-age=31536000, immutable"
)

// Publisher serves library files at /<library>/<path> and
// /<library>/:version:<hash>/<path>. Mount it under the publisher signature.
type Publisher struct {
	registry *Registry
	router   chi.Router
}

// NewPublisher returns a publisher serving the libraries in reg. Libraries
// added to reg later are served as well.
func NewPublisher(reg *Registry) *Publisher {
	p := &Publisher{registry: reg}
	r := chi.NewRouter()
	r.Get("/{library}/*", p.serve)
	r.Head("/{library}/*", p.serve)
	r.NotFound(http.NotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	p.router = r
	return p
}

// ServeHTTP implements http.Handler.
func (p *Publisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.router.ServeHTTP(w, r)
}

func (p *Publisher) serve(w http.ResponseWriter, r *http.Request) {
	lib, ok := p.registry.Library(chi.URLParam(r, "library"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	rest := chi.URLParam(r, "*")
	versioned := false
	if strings.HasPrefix(rest, versionPrefix) {
		_, after, found := strings.Cut(rest, "/")
		if !found {
			http.NotFound(w, r)
			return
		}
		rest, versioned = after, true
	}
	if errors.ValidatePath(rest) != nil {
		http.NotFound(w, r)
		return
	}

	info, err := fs.Stat(lib.FS(), rest)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	if versioned {
		w.Header().Set("Cache-Control", immutableCache)
	}
	http.ServeFileFS(w, r, lib.FS(), rest)
}
