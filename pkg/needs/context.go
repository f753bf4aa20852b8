package needs

import (
	"context"
	"html/template"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/errors"
	"github.com/matzehuels/needful/pkg/web"
)

type contextKey struct{}

// Context is the needed set of one request. It starts open and becomes
// rendered on the first read of [Context.Top] or [Context.Bottom].
type Context struct {
	ctx     context.Context
	manager *Manager
	needed  *asset.Needed

	rendered    bool
	top, bottom template.HTML
	err         error
}

// FromContext returns the request's Context.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok
}

// Need resolves names and adds them to the needed set of the request in
// ctx. Handlers use it where templates use the needs function.
func Need(ctx context.Context, names ...string) error {
	c, ok := FromContext(ctx)
	if !ok {
		return errNoContext
	}
	_, err := c.Need(names...)
	return err
}

// Need resolves names (see [ParseRef]) and needs them. It returns an empty
// string so templates can call it inline.
func (c *Context) Need(names ...string) (template.HTML, error) {
	if c.rendered {
		return "", errors.New(errors.ErrCodeInvalidState, "resources were already rendered")
	}
	for _, name := range names {
		dep, err := c.manager.Resolve(c.ctx, ParseRef(name))
		if err != nil {
			return "", err
		}
		if err := c.needed.Need(dep); err != nil {
			return "", err
		}
	}
	return "", nil
}

// NeedResource needs dependencies directly.
func (c *Context) NeedResource(deps ...asset.Dependency) error {
	if c.rendered {
		return errors.New(errors.ErrCodeInvalidState, "resources were already rendered")
	}
	return c.needed.Need(deps...)
}

// Rendered reports whether the markup was produced.
func (c *Context) Rendered() bool { return c.rendered }

// Top returns the head markup, rendering both fragments on first use.
func (c *Context) Top() (template.HTML, error) {
	if err := c.render(); err != nil {
		return "", err
	}
	return c.top, nil
}

// Bottom returns the end-of-body markup, rendering both fragments on first
// use.
func (c *Context) Bottom() (template.HTML, error) {
	if err := c.render(); err != nil {
		return "", err
	}
	return c.bottom, nil
}

func (c *Context) render() error {
	if c.rendered {
		return c.err
	}
	c.rendered = true
	// Needs issued straight to the needed set (resource.Need) must fail too.
	c.needed.Close("resources were already rendered")

	top, bottom, err := c.needed.Render(c.ctx)
	c.top, c.bottom, c.err = template.HTML(top), template.HTML(bottom), err
	c.manager.logger.Debug("rendered resources", "id", web.RequestID(c.ctx), "empty", top == "" && bottom == "", "err", err)
	return err
}
