package asset

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/needful/pkg/cache"
	"github.com/matzehuels/needful/pkg/dag"
	"github.com/matzehuels/needful/pkg/errors"
)

// Needed accumulates the dependencies needed by one response. It is not
// safe for concurrent use; each request gets its own.
type Needed struct {
	opts    Options
	cache   cache.Cache
	needed  []*Resource
	seen    map[*Resource]bool
	closed  bool
	closeBy string
}

// NewNeeded returns an empty needed set rendering with opts. c stores
// library fingerprints and may be nil.
func NewNeeded(opts Options, c cache.Cache) *Needed {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Needed{opts: opts, cache: c, seen: make(map[*Resource]bool)}
}

// Options returns the options the set renders with.
func (n *Needed) Options() Options { return n.opts }

// Need adds dependencies to the set. Needing the same resource twice is a
// no-op. Fails with INVALID_STATE after [Needed.Close].
func (n *Needed) Need(deps ...Dependency) error {
	if n.closed {
		return errors.New(errors.ErrCodeInvalidState, "cannot need resources: %s", n.closeBy)
	}
	for _, d := range deps {
		for _, r := range d.Resources() {
			if !n.seen[r] {
				n.seen[r] = true
				n.needed = append(n.needed, r)
			}
		}
	}
	return nil
}

// HasResources reports whether anything was needed.
func (n *Needed) HasResources() bool { return len(n.needed) > 0 }

// Close rejects further needs. reason ends up in the INVALID_STATE error.
func (n *Needed) Close(reason string) {
	if n.closed {
		return
	}
	n.closed = true
	n.closeBy = reason
}

// Closed reports whether the set accepts further needs.
func (n *Needed) Closed() bool { return n.closed }

// Resources returns the needed resources and all their transitive
// dependencies, each once, with every dependency ahead of its dependents.
// Stylesheets come before scripts unless a dependency forces otherwise;
// remaining ties keep the order in which resources were first reached.
func (n *Needed) Resources() ([]*Resource, error) {
	g, byID, err := n.graph()
	if err != nil {
		return nil, err
	}
	order, err := g.DependencyOrder(func(a, b *dag.Node) bool {
		return byID[a.ID].kind < byID[b.ID].kind
	})
	if stderrors.Is(err, dag.ErrGraphHasCycle) {
		return nil, errors.Wrap(errors.ErrCodeDependencyCycle, err, "needed resources have cyclic dependencies")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "order needed resources")
	}
	out := make([]*Resource, len(order))
	for i, node := range order {
		out[i] = byID[node.ID]
	}
	return out, nil
}

// Graph returns the dependency graph of the needed set, for inspection.
func (n *Needed) Graph() (*dag.DAG, error) {
	g, _, err := n.graph()
	return g, err
}

func (n *Needed) graph() (*dag.DAG, map[string]*Resource, error) {
	g := dag.New(nil)
	byID := make(map[string]*Resource)

	var visit func(r *Resource) error
	visit = func(r *Resource) error {
		id := r.String()
		if _, ok := byID[id]; ok {
			return nil
		}
		byID[id] = r
		if err := g.AddNode(dag.Node{ID: id, Meta: dag.Metadata{
			"library": r.library.name,
			"kind":    r.kind.String(),
		}}); err != nil {
			return err
		}
		for _, d := range r.depends {
			if err := visit(d); err != nil {
				return err
			}
			if err := g.AddEdge(dag.Edge{From: id, To: d.String()}); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range n.needed {
		if err := visit(r); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "build dependency graph")
		}
	}
	return g, byID, nil
}

type neededKey struct{}

// WithNeeded returns a context carrying n.
func WithNeeded(ctx context.Context, n *Needed) context.Context {
	return context.WithValue(ctx, neededKey{}, n)
}

// NeededFromContext returns the needed set stored in ctx.
func NeededFromContext(ctx context.Context) (*Needed, bool) {
	if ctx == nil {
		return nil, false
	}
	n, ok := ctx.Value(neededKey{}).(*Needed)
	return n, ok && n != nil
}
