package asset

import "context"

// Group is an ordered bundle of dependencies needed together.
type Group struct {
	items []Dependency
}

// NewGroup returns a group of the given items. Nested groups are flattened
// when the group's resources are listed.
func NewGroup(items ...Dependency) *Group {
	return &Group{items: append([]Dependency(nil), items...)}
}

// Resources returns the resources of every item, in item order.
func (g *Group) Resources() []*Resource {
	var out []*Resource
	for _, it := range g.items {
		out = append(out, it.Resources()...)
	}
	return out
}

// Need adds every resource in the group to the request's needed set.
func (g *Group) Need(ctx context.Context) error { return needIn(ctx, g) }
