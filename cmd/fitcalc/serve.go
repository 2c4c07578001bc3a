package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evefit/fitcalc/internal/config"
	"github.com/evefit/fitcalc/pkg/fitserver"
	"github.com/evefit/fitcalc/pkg/obs"
)

func serveCmd() *cobra.Command {
	var (
		configDir string
		address   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fitserver REST + WebSocket API",
		Long: `serve loads a catalog and starts pkg/fitserver: a small REST +
WebSocket surface for creating fits, placing holders, transitioning their
state, and reading attributes.

Example:
  fitcalc serve --address :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			metrics := obs.NewMetrics()

			serverCfg := fitserver.DefaultServerConfig()
			serverCfg.Address = cfg.Server.Address
			if cfg.Server.MaxFits > 0 {
				serverCfg.Sessions.MaxFits = cfg.Server.MaxFits
			}
			if cfg.Server.IdleTimeout > 0 {
				serverCfg.Sessions.IdleTimeout = cfg.Server.IdleTimeout
			}
			if cfg.Server.CleanupInterval > 0 {
				serverCfg.Sessions.CleanupInterval = cfg.Server.CleanupInterval
			}

			srv := fitserver.New(cat, serverCfg, metrics, nil)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			info("fitserver listening on %s", cfg.Server.Address)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				info("shutting down")
				return srv.Shutdown(context.Background())
			}
		},
	}

	cmd.Flags().StringVar(&configDir, "config", ".", "Directory containing fitcalc.json")
	cmd.Flags().StringVar(&address, "address", "", "Override the listen address from fitcalc.json")

	return cmd
}
