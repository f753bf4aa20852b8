package web

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/matzehuels/needful/pkg/errors"
)

// TemplateFuncs adds a provider of request-bound template functions. Add
// providers before the first [App.Render].
func (a *App) TemplateFuncs(p FuncProvider) { a.funcs = append(a.funcs, p) }

func (a *App) templates() (*template.Template, error) {
	a.tmplOnce.Do(func() {
		if a.tmplFS == nil {
			a.tmplErr = errors.New(errors.ErrCodeConfiguration, "app %q has no templates", a.name)
			return
		}
		t := template.New(a.name)
		for _, p := range a.funcs {
			t.Funcs(p(context.Background()))
		}
		a.tmpl, a.tmplErr = t.ParseFS(a.tmplFS, a.tmplPatterns...)
	})
	return a.tmpl, a.tmplErr
}

// Render executes the named template with functions bound to r and writes
// the result as HTML. On failure nothing is written except a 500 response,
// and the error is returned.
func (a *App) Render(w http.ResponseWriter, r *http.Request, name string, data any) error {
	var buf bytes.Buffer
	if err := a.RenderTo(r.Context(), &buf, name, data); err != nil {
		a.logger.Error("render template", "id", RequestID(r.Context()), "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// RenderTo executes the named template with functions bound to ctx.
func (a *App) RenderTo(ctx context.Context, buf *bytes.Buffer, name string, data any) error {
	base, err := a.templates()
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	for _, p := range a.funcs {
		t.Funcs(p(ctx))
	}
	return t.ExecuteTemplate(buf, name, data)
}
