// Package demo is a small application showing resources needed from
// handlers, from templates, and from a blueprint.
package demo

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/config"
	"github.com/matzehuels/needful/pkg/needs"
	"github.com/matzehuels/needful/pkg/web"
)

//go:embed static widgets_static templates
var files embed.FS

// Name is the demo App name, and so the name of its static library.
const Name = "demo"

type page struct {
	Title string
	Body  template.HTML
}

// New builds the demo App. The root serves "/", the widgets blueprint
// serves "/widgets/".
func New(cfg *config.Config, logger *log.Logger) (*web.App, error) {
	static, err := fs.Sub(files, "static")
	if err != nil {
		return nil, err
	}
	templates, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, err
	}
	widgetsStatic, err := fs.Sub(files, "widgets_static")
	if err != nil {
		return nil, err
	}

	app := web.NewApp(Name,
		web.WithConfig(cfg),
		web.WithLogger(logger),
		web.WithStatic(static),
		web.WithTemplates(templates, "*.html"),
	)
	root, err := needs.New(app)
	if err != nil {
		return nil, err
	}
	style, err := root.NamedResource("style", "style.css")
	if err != nil {
		return nil, err
	}
	appJS, err := root.NamedResource("app", "app.js", asset.DependsOn(style), asset.Bottom())
	if err != nil {
		return nil, err
	}

	app.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if err := needs.Need(r.Context(), "app"); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		app.Render(w, r, "index.html", page{
			Title: "needful demo",
			Body:  `<p><a href="/widgets/">widgets</a></p>`,
		})
	})

	widgets := web.NewBlueprint("widgets", web.WithBlueprintStatic(widgetsStatic))
	wa, err := needs.New(widgets)
	if err != nil {
		return nil, err
	}
	if _, err := wa.NamedResource("widget_css", "widget.css"); err != nil {
		return nil, err
	}
	if _, err := wa.NamedResource("widget", "widget.js", asset.DependsOn(appJS), asset.Bottom()); err != nil {
		return nil, err
	}
	widgets.Get("/", func(w http.ResponseWriter, r *http.Request) {
		app.Render(w, r, "widgets.html", page{
			Title: "widgets",
			Body:  `<div class="widget">loading</div>`,
		})
	})
	if err := app.RegisterBlueprint(widgets, "/widgets"); err != nil {
		return nil, err
	}
	return app, nil
}
