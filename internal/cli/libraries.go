package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/needful/pkg/asset"
)

// libraryRow describes one published library.
type libraryRow struct {
	lib     *asset.Library
	source  string
	version string
}

// librariesCommand creates the libraries command.
func (c *CLI) librariesCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:     "libraries",
		Aliases: []string{"libs", "ls"},
		Short:   "List published libraries and their resources",
		Example: `  needful libraries
  needful libraries -m libraries.toml --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.setup(ctx, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			rows, err := e.libraryRows(ctx)
			if err != nil {
				return userError(err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, librariesTable(rows).Render())
			if detailed {
				for _, row := range rows {
					fmt.Fprintln(w)
					fmt.Fprintln(w, StyleTitle.Render(row.lib.Name()))
					resources := row.lib.Resources()
					if len(resources) == 0 {
						fmt.Fprintln(w, "  "+StyleDim.Render("no declared resources"))
					}
					for _, r := range resources {
						fmt.Fprintln(w, "  "+describeResource(r))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "list each library's resources")

	return cmd
}

// libraryRows lists every library the App publishes with where it came
// from.
func (e *env) libraryRows(ctx context.Context) ([]libraryRow, error) {
	sources := map[string]string{}
	for _, module := range e.manager.Modules() {
		a, _ := e.manager.Assets(module)
		if lib := a.Library(); lib != nil {
			if module == "" {
				sources[lib.Name()] = "app"
			} else {
				sources[lib.Name()] = "blueprint"
			}
		}
	}
	if e.manifest != nil {
		for _, lib := range e.manifest.Libraries() {
			sources[lib.Name()] = "manifest"
		}
	}

	recompute := e.manager.Options().RecomputeHashes
	var rows []libraryRow
	for _, lib := range e.manager.Registry().Libraries() {
		v, err := lib.Version(ctx, e.cache, recompute)
		if err != nil {
			return nil, err
		}
		src, ok := sources[lib.Name()]
		if !ok {
			src = "shared"
		}
		rows = append(rows, libraryRow{lib: lib, source: src, version: v})
	}
	return rows, nil
}

func librariesTable(rows []libraryRow) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			row.lib.Name(),
			strconv.Itoa(len(row.lib.Resources())),
			row.source,
			shortVersion(row.version),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Library", "Resources", "Source", "Version").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

func describeResource(r *asset.Resource) string {
	line := StyleValue.Render(r.Path()) + " " + StyleDim.Render(r.Kind().String())
	if r.IsBottom() {
		line += " " + StyleDim.Render("bottom")
	}
	for _, d := range r.Depends() {
		line += " " + StyleDim.Render(iconArrow) + " " + d.String()
	}
	return line
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
