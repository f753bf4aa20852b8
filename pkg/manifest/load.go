package manifest

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/dag"
	"github.com/matzehuels/needful/pkg/errors"
)

// Manifest holds the libraries, resources and groups a [File] declares.
type Manifest struct {
	libraries []*asset.Library
	resources map[string]*asset.Resource
	groups    map[string]*asset.Group
	graph     *dag.DAG
}

type decl struct {
	lib  *asset.Library
	spec ResourceSpec
}

// Load creates the declared libraries over directories of fsys.
func Load(f *File, fsys fs.FS) (*Manifest, error) {
	m := &Manifest{
		resources: make(map[string]*asset.Resource),
		groups:    make(map[string]*asset.Group),
		graph:     dag.New(nil),
	}
	decls := make(map[string]decl)
	var ids []string

	seenLib := make(map[string]bool)
	for _, ls := range f.Libraries {
		if err := errors.ValidateName("library", ls.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "library")
		}
		if seenLib[ls.Name] {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "library %q declared twice", ls.Name)
		}
		seenLib[ls.Name] = true

		dir := ls.Dir
		if dir == "" {
			dir = ls.Name
		}
		if err := errors.ValidatePath(dir); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "library %s: dir %q", ls.Name, dir)
		}
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "library %s", ls.Name)
		}
		lib, err := asset.NewLibrary(ls.Name, sub)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "library %s", ls.Name)
		}
		m.libraries = append(m.libraries, lib)

		for _, rs := range ls.Resources {
			id := ls.Name + ":" + rs.Path
			if _, dup := decls[id]; dup {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "resource %s declared twice", id)
			}
			if info, err := fs.Stat(sub, rs.Path); err != nil || !info.Mode().IsRegular() {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "resource %s: no such file in %s", id, dir)
			}
			decls[id] = decl{lib: lib, spec: rs}
			ids = append(ids, id)
			_ = m.graph.AddNode(dag.Node{ID: id, Meta: dag.Metadata{"library": ls.Name}})
		}
	}

	for _, id := range ids {
		d := decls[id]
		for _, dep := range d.spec.Depends {
			depID := qualify(d.lib.Name(), dep)
			if _, ok := decls[depID]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "resource %s depends on undeclared %s", id, depID)
			}
			_ = m.graph.AddEdge(dag.Edge{From: id, To: depID})
		}
	}

	order, err := m.graph.DependencyOrder(nil)
	if stderrors.Is(err, dag.ErrGraphHasCycle) {
		return nil, errors.Wrap(errors.ErrCodeDependencyCycle, err, "manifest resources")
	}
	if err != nil {
		return nil, err
	}
	for _, n := range order {
		d := decls[n.ID]
		var deps []asset.Dependency
		for _, dep := range d.spec.Depends {
			deps = append(deps, m.resources[qualify(d.lib.Name(), dep)])
		}
		opts := []asset.ResourceOption{asset.DependsOn(deps...)}
		if d.spec.Bottom {
			opts = append(opts, asset.Bottom())
		}
		if d.spec.Minified != "" {
			opts = append(opts, asset.Minified(d.spec.Minified))
		}
		if d.spec.Debug != "" {
			opts = append(opts, asset.Debug(d.spec.Debug))
		}
		r, err := asset.NewResource(d.lib, d.spec.Path, opts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "resource %s", n.ID)
		}
		n.Meta["kind"] = r.Kind().String()
		m.resources[n.ID] = r
	}

	for _, ls := range f.Libraries {
		for _, gs := range ls.Groups {
			if err := errors.ValidateName("group", gs.Name); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "library %s", ls.Name)
			}
			id := ls.Name + ":" + gs.Name
			if _, dup := m.groups[id]; dup {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "group %s declared twice", id)
			}
			items := make([]asset.Dependency, 0, len(gs.Items))
			for _, it := range gs.Items {
				d, err := m.Lookup(qualify(ls.Name, it))
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "group %s", id)
				}
				items = append(items, d)
			}
			m.groups[id] = asset.NewGroup(items...)
		}
	}
	return m, nil
}

func qualify(lib, ref string) string {
	if strings.Contains(ref, ":") {
		return ref
	}
	return lib + ":" + ref
}

// Libraries returns the declared libraries in declaration order.
func (m *Manifest) Libraries() []*asset.Library { return m.libraries }

// Lookup finds a resource or group by its "library:path" or
// "library:group" reference.
func (m *Manifest) Lookup(ref string) (asset.Dependency, error) {
	if r, ok := m.resources[ref]; ok {
		return r, nil
	}
	if g, ok := m.groups[ref]; ok {
		return g, nil
	}
	return nil, errors.New(errors.ErrCodeResourceNotFound, "manifest declares no resource or group %q", ref)
}

// Groups returns the group references, "library:name".
func (m *Manifest) Groups() []string {
	out := make([]string, 0, len(m.groups))
	for id := range m.groups {
		out = append(out, id)
	}
	return out
}

// Graph returns the dependency graph of every declared resource. Nodes
// carry "library" and "kind" metadata.
func (m *Manifest) Graph() *dag.DAG { return m.graph }

// Register adds every library to reg.
func (m *Manifest) Register(reg *asset.Registry) {
	for _, lib := range m.libraries {
		reg.Add(lib)
	}
}
