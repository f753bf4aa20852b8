package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// renderOpts holds options for the render command. Unset flags keep the
// configured [needs] options.
type renderOpts struct {
	bottom      bool
	forceBottom bool
	versioning  bool
	minified    bool
	debug       bool
	signature   string
	baseURL     string
	raw         bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <ref>...",
		Short: "Print the markup a page needing the given resources would get",
		Long: `Print the <link> and <script> markup for the given resources.

References are resolved the way templates resolve them:
  name              a resource of the demo app
  blueprint.name    a resource of a blueprint
  library:path      a file of a published library (manifest groups too)`,
		Example: `  # Markup for the demo app's script and its dependencies
  needful render app

  # Versioned URLs with scripts at the bottom
  needful render widgets.widget --versioning --bottom

  # A group declared in a manifest
  needful render -m libraries.toml jquery:ui`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			e, err := c.setup(ctx, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			needsOpts := e.manager.Options()
			flags := cmd.Flags()
			if flags.Changed("bottom") {
				needsOpts.Bottom = opts.bottom
			}
			if flags.Changed("force-bottom") {
				needsOpts.ForceBottom = opts.forceBottom
			}
			if flags.Changed("versioning") {
				needsOpts.Versioning = opts.versioning
			}
			if flags.Changed("minified") {
				needsOpts.Minified = opts.minified
			}
			if flags.Changed("debug") {
				needsOpts.Debug = opts.debug
			}
			if flags.Changed("signature") {
				needsOpts.PublisherSignature = opts.signature
			}
			if flags.Changed("base-url") {
				needsOpts.BaseURL = opts.baseURL
			}
			if err := needsOpts.Validate(); err != nil {
				return userError(err)
			}

			prog := newProgress(logger)
			needed, err := e.neededFor(ctx, needsOpts, args)
			if err != nil {
				return userError(err)
			}
			resources, err := needed.Resources()
			if err != nil {
				return userError(err)
			}
			top, bottom, err := needed.Render(ctx)
			if err != nil {
				return userError(err)
			}

			w := cmd.OutOrStdout()
			if opts.raw {
				fmt.Fprint(w, top)
				if bottom != "" {
					fmt.Fprintln(w)
					fmt.Fprint(w, bottom)
				}
				fmt.Fprintln(w)
				return nil
			}

			fmt.Fprintln(w, StyleTitle.Render("top"))
			fmt.Fprintln(w, orNone(top))
			fmt.Fprintln(w)
			fmt.Fprintln(w, StyleTitle.Render("bottom"))
			fmt.Fprintln(w, orNone(bottom))
			prog.done(fmt.Sprintf("Rendered %d resources", len(resources)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.bottom, "bottom", false, "render scripts flagged bottom at the end of the body")
	cmd.Flags().BoolVar(&opts.forceBottom, "force-bottom", false, "render every script at the end of the body")
	cmd.Flags().BoolVar(&opts.versioning, "versioning", false, "insert content fingerprints into URLs")
	cmd.Flags().BoolVar(&opts.minified, "minified", false, "use minified variants")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "use debug variants")
	cmd.Flags().StringVar(&opts.signature, "signature", "", "publisher signature (URL prefix)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "prefix for every URL")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print only the markup")

	return cmd
}

func orNone(s string) string {
	if s == "" {
		return StyleDim.Render("(none)")
	}
	return s
}
