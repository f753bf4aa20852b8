package asset

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/matzehuels/needful/pkg/observability"
)

const (
	cssFmt = `<link rel="stylesheet" type="text/css" href="%s" />`
	jsFmt  = `<script type="text/javascript" src="%s"></script>`
)

// URL returns the public URL of r under the given options.
func (n *Needed) URL(ctx context.Context, r *Resource) (string, error) {
	var b strings.Builder
	b.WriteString(strings.TrimRight(n.opts.BaseURL, "/"))
	b.WriteString("/")
	b.WriteString(n.opts.Signature())
	b.WriteString("/")
	b.WriteString(r.library.name)
	if n.opts.Versioning {
		v, err := r.library.Version(ctx, n.cache, n.opts.RecomputeHashes)
		if err != nil {
			return "", err
		}
		b.WriteString("/:version:")
		b.WriteString(v)
	}
	b.WriteString("/")
	b.WriteString(r.PathFor(n.opts.Mode()))
	return b.String(), nil
}

// Render returns the head and end-of-body markup for the needed set. Both
// are empty when nothing was needed.
//
// A script goes to the bottom fragment only when bottom placement is enabled
// (per resource with [Bottom], or for all scripts with ForceBottom) and no
// resource that stays in the head depends on it.
func (n *Needed) Render(ctx context.Context) (top, bottom string, err error) {
	if !n.HasResources() {
		return "", "", nil
	}
	start := time.Now()
	var count int
	defer func() { observability.Render().OnRender(ctx, count, time.Since(start), err) }()

	ordered, err := n.Resources()
	if err != nil {
		return "", "", err
	}

	atTop := make(map[*Resource]bool, len(ordered))
	for i := len(ordered) - 1; i >= 0; i-- {
		r := ordered[i]
		atTop[r] = !n.bottomEligible(r)
		if atTop[r] {
			continue
		}
		// dependents appear later in the order, so they are decided already
		for _, other := range ordered[i+1:] {
			if atTop[other] && dependsOn(other, r) {
				atTop[r] = true
				break
			}
		}
	}

	count = len(ordered)
	var topLines, bottomLines []string
	for _, r := range ordered {
		url, err := n.URL(ctx, r)
		if err != nil {
			return "", "", err
		}
		line := renderTag(r.kind, url)
		if atTop[r] {
			topLines = append(topLines, line)
		} else {
			bottomLines = append(bottomLines, line)
		}
	}
	return strings.Join(topLines, "\n"), strings.Join(bottomLines, "\n"), nil
}

func (n *Needed) bottomEligible(r *Resource) bool {
	if r.kind != KindJS {
		return false
	}
	if n.opts.ForceBottom {
		return true
	}
	return n.opts.Bottom && r.bottom
}

func dependsOn(r, dep *Resource) bool {
	for _, d := range r.depends {
		if d == dep {
			return true
		}
	}
	return false
}

func renderTag(k Kind, url string) string {
	escaped := template.HTMLEscapeString(url)
	if k == KindCSS {
		return fmt.Sprintf(cssFmt, escaped)
	}
	return fmt.Sprintf(jsFmt, escaped)
}
