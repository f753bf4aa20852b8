package cli

import (
	"context"
	"strings"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/errors"
	"github.com/matzehuels/needful/pkg/needs"
)

// resolve maps command-line references to dependencies. "library:name"
// references are tried against the manifest first, so its groups are
// reachable; everything else resolves the way templates do.
func (e *env) resolve(ctx context.Context, refs []string) ([]asset.Dependency, error) {
	deps := make([]asset.Dependency, 0, len(refs))
	for _, ref := range refs {
		if e.manifest != nil && strings.Contains(ref, ":") {
			if d, err := e.manifest.Lookup(ref); err == nil {
				deps = append(deps, d)
				continue
			}
		}
		d, err := e.manager.Resolve(ctx, needs.ParseRef(ref))
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, nil
}

// neededFor builds a needed set over refs, or over every published
// resource when refs is empty.
func (e *env) neededFor(ctx context.Context, opts asset.Options, refs []string) (*asset.Needed, error) {
	needed := asset.NewNeeded(opts, e.cache)
	if len(refs) == 0 {
		for _, lib := range e.manager.Registry().Libraries() {
			for _, r := range lib.Resources() {
				if err := needed.Need(r); err != nil {
					return nil, err
				}
			}
		}
		return needed, nil
	}
	deps, err := e.resolve(ctx, refs)
	if err != nil {
		return nil, err
	}
	if err := needed.Need(deps...); err != nil {
		return nil, err
	}
	return needed, nil
}

// userError strips the code prefix from coded errors for display.
func userError(err error) error {
	if errors.GetCode(err) == "" {
		return err
	}
	return &displayError{err: err}
}

type displayError struct{ err error }

func (d *displayError) Error() string { return errors.UserMessage(d.err) }
func (d *displayError) Unwrap() error { return d.err }
