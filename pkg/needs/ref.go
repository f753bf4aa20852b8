package needs

import "strings"

// Ref names a resource or group. It is a [LocalRef] or a [QualifiedRef].
type Ref interface {
	String() string
	isRef()
}

// LocalRef names a resource registered in a module's [Assets].
type LocalRef struct {
	// Module is the blueprint name, "" for the App.
	Module string
	// Current means the blueprint handling the request, decided at
	// resolve time. Module is ignored.
	Current bool
	Name    string
}

// QualifiedRef names a file of a library in the asset registry.
type QualifiedRef struct {
	Library string
	Path    string
}

func (LocalRef) isRef()     {}
func (QualifiedRef) isRef() {}

func (r LocalRef) String() string {
	switch {
	case r.Current:
		return "." + r.Name
	case r.Module != "":
		return r.Module + "." + r.Name
	}
	return r.Name
}

func (r QualifiedRef) String() string { return r.Library + ":" + r.Path }

// ParseRef parses a resource name.
//
//	"jquery:jquery.js" -> QualifiedRef{Library: "jquery", Path: "jquery.js"}
//	"bp.widget"        -> LocalRef{Module: "bp", Name: "widget"}
//	".widget"          -> LocalRef{Current: true, Name: "widget"}
//	"widget"           -> LocalRef{Name: "widget"}
func ParseRef(s string) Ref {
	if lib, path, ok := strings.Cut(s, ":"); ok {
		return QualifiedRef{Library: lib, Path: path}
	}
	i := strings.LastIndexByte(s, '.')
	switch {
	case i < 0:
		return LocalRef{Name: s}
	case i == 0:
		return LocalRef{Current: true, Name: s[1:]}
	}
	return LocalRef{Module: s[:i], Name: s[i+1:]}
}
