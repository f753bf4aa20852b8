package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/needful/pkg/asset"
)

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a library and resource interactively and show its markup",
		Args:  cobra.NoArgs,
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
			if len(rows) == 0 {
				printInfo("No libraries are published")
				return nil
			}

			final, err := tea.NewProgram(NewLibraryListModel(rows), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("library picker: %w", err)
			}
			lib := final.(LibraryListModel).Selected
			if lib == nil {
				return nil
			}

			final, err = tea.NewProgram(NewResourceListModel(lib), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("resource picker: %w", err)
			}
			res := final.(ResourceListModel).Selected
			if res == nil {
				return nil
			}

			needed := asset.NewNeeded(e.manager.Options(), e.cache)
			if err := needed.Need(res); err != nil {
				return userError(err)
			}
			url, err := needed.URL(ctx, res)
			if err != nil {
				return userError(err)
			}
			top, bottom, err := needed.Render(ctx)
			if err != nil {
				return userError(err)
			}

			printKeyValue("Resource", res.String())
			printKeyValue("URL", StyleLink.Render(url))
			printKeyValue("Markup", "")
			for _, line := range strings.Split(strings.TrimSpace(top+"\n"+bottom), "\n") {
				printDetail("%s", line)
			}
			printNewline()
			printNextStep("Render it with dependencies", "needful render "+res.String())
			return nil
		},
	}
}
