package main

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-elements/internal/config"
	"github.com/vcrobe/nojs-elements/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port     int
		host     string
		noReload bool
		variant  string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Serve the build output and rebuild on change",
		Long: `Build once, serve the output directory and rebuild when Go sources
change. Connected pages reload automatically; build errors are shown as
an overlay. Prometheus metrics are served at /metrics.

Examples:
  wcdev dev
  wcdev dev --port=9000
  wcdev dev --no-reload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return err
			}
			applyBuildFlags(cfg, "", "", tags, variant)
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if noReload {
				off := false
				cfg.Dev.Reload = &off
			}
			return runDev(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from wc.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from wc.json)")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Do not inject the live reload client")
	cmd.Flags().StringVar(&variant, "variant", "", "hello-world implementation: go or script")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Build tags, e.g. dev")

	return cmd
}

func runDev(cfg *config.Config) error {
	if _, err := exec.LookPath("go"); err != nil {
		errorMsg("Go is not installed or not in PATH")
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := dev.NewServer(dev.ServerOptions{
		Config: cfg,
		Logger: newLogger(os.Stderr),
		OnBuildComplete: func(result dev.BuildResult) {
			if result.Success {
				success("Built in %s", result.Duration.Round(time.Millisecond))
			} else {
				warn("Build failed")
				info("%s", result.Output)
			}
		},
	})

	info("Serving %s at %s", cfg.OutputPath(), cfg.DevURL())
	info("Metrics at %s/metrics", cfg.DevURL())
	return server.Start(ctx)
}
