// Package manifest declares asset libraries in a TOML file.
//
// A manifest lists libraries, each a directory next to the manifest, with
// the resources and groups it provides:
//
//	[[library]]
//	name = "jquery"
//	dir = "vendor/jquery"
//
//	  [[library.resource]]
//	  path = "jquery.js"
//	  minified = "jquery.min.js"
//
//	[[library]]
//	name = "widgets"
//
//	  [[library.resource]]
//	  path = "widgets.js"
//	  depends = ["jquery:jquery.js", "widgets.css"]
//	  bottom = true
//
//	  [[library.resource]]
//	  path = "widgets.css"
//
//	  [[library.group]]
//	  name = "all"
//	  items = ["widgets.js", "widgets.css"]
//
// Dependencies and group items are paths in the same library or
// "library:path" references to other libraries. Group items may also name
// an earlier group of the same library. Declaration order does not matter
// for resources: they are created in dependency order.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/needful/pkg/errors"
)

// File is the decoded TOML document.
type File struct {
	Libraries []LibrarySpec `toml:"library"`
}

// LibrarySpec declares one library.
type LibrarySpec struct {
	Name string `toml:"name"`
	// Dir is the library directory relative to the manifest. Defaults to Name.
	Dir       string         `toml:"dir"`
	Resources []ResourceSpec `toml:"resource"`
	Groups    []GroupSpec    `toml:"group"`
}

// ResourceSpec declares one resource.
type ResourceSpec struct {
	Path     string   `toml:"path"`
	Depends  []string `toml:"depends"`
	Bottom   bool     `toml:"bottom"`
	Minified string   `toml:"minified"`
	Debug    string   `toml:"debug"`
}

// GroupSpec declares a named group.
type GroupSpec struct {
	Name  string   `toml:"name"`
	Items []string `toml:"items"`
}

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest keys: %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

// Open reads, parses and loads the manifest at path. Library directories
// are resolved against the manifest's directory.
func Open(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Load(f, os.DirFS(filepath.Dir(path)))
}
