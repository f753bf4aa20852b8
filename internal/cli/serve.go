package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/needful/pkg/config"
)

// shutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application and its published libraries",
		Long: `Serve the demo application. Every page declares the resources it needs;
the publisher serves the library files under /<publisher_signature>.

Libraries from the configured manifest are published alongside the
demo's own.`,
		Example: `  # Serve with defaults on :8080
  needful serve

  # Serve with a config file and a library manifest
  needful serve -c needful.toml -m libraries.toml --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, nil)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe serves until ctx is cancelled. If ln is nil it listens on the
// configured address.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	logger := loggerFromContext(ctx)
	e, err := c.setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	if ln == nil {
		if ln, err = net.Listen("tcp", e.cfg.Server.Addr); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	srv := &http.Server{
		Handler:           e.app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	logger.Info("serving", "addr", ln.Addr().String(), "publisher", "/"+e.manager.Options().Signature())
	for _, lib := range e.manager.Registry().Libraries() {
		logger.Debug("published", "library", lib.Name(), "resources", len(lib.Resources()))
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
