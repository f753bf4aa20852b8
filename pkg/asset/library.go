package asset

import (
	"context"
	"io/fs"
	"sync"

	"github.com/matzehuels/needful/pkg/cache"
	"github.com/matzehuels/needful/pkg/errors"
)

// Library is a named set of files that resources are declared against.
// A library is safe for concurrent use once its resources are declared.
type Library struct {
	name string
	fsys fs.FS

	mu        sync.Mutex
	resources map[string]*Resource
	order     []*Resource

	versionMu sync.Mutex
	version   string
}

// NewLibrary creates a library named name over fsys.
func NewLibrary(name string, fsys fs.FS) (*Library, error) {
	if err := errors.ValidateName("library", name); err != nil {
		return nil, err
	}
	if fsys == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "library %q has no filesystem", name)
	}
	return &Library{
		name:      name,
		fsys:      fsys,
		resources: make(map[string]*Resource),
	}, nil
}

// Name returns the library name, which is also its URL segment.
func (l *Library) Name() string { return l.name }

// FS returns the library's files.
func (l *Library) FS() fs.FS { return l.fsys }

// Resource returns the resource declared at path.
func (l *Library) Resource(path string) (*Resource, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.resources[path]
	return r, ok
}

// Resources returns the declared resources in declaration order.
func (l *Library) Resources() []*Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Resource, len(l.order))
	copy(out, l.order)
	return out
}

func (l *Library) register(r *Resource) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.resources[r.path]; exists {
		return errors.New(errors.ErrCodeInvalidResource, "resource %s:%s already declared", l.name, r.path)
	}
	l.resources[r.path] = r
	l.order = append(l.order, r)
	return nil
}

// Version returns the library's content fingerprint. The first result is
// memoized for the life of the library unless recompute is set. c may be
// nil.
func (l *Library) Version(ctx context.Context, c cache.Cache, recompute bool) (string, error) {
	l.versionMu.Lock()
	defer l.versionMu.Unlock()
	if l.version != "" && !recompute {
		return l.version, nil
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	v, err := fingerprint(ctx, l.name, l.fsys, c)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "fingerprint library %s", l.name)
	}
	l.version = v
	return v, nil
}
