package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-elements/internal/config"
	"github.com/vcrobe/nojs-elements/internal/dev"
)

func buildCmd() *cobra.Command {
	var (
		output  string
		entry   string
		tags    []string
		variant string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the entry package to WebAssembly",
		Long: `Compile the entry package with GOOS=js GOARCH=wasm and write a
servable directory containing main.wasm, wasm_exec.js and index.html.

Examples:
  wcdev build
  wcdev build --output=public
  wcdev build --variant=script
  wcdev build --tags=dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return err
			}
			applyBuildFlags(cfg, output, entry, tags, variant)
			return runBuild(cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from wc.json)")
	cmd.Flags().StringVar(&entry, "entry", "", "Main package to compile (default from wc.json)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Build tags, e.g. dev")
	cmd.Flags().StringVar(&variant, "variant", "", "hello-world implementation: go or script")

	return cmd
}

func applyBuildFlags(cfg *config.Config, output, entry string, tags []string, variant string) {
	if output != "" {
		cfg.Build.Output = output
	}
	if entry != "" {
		cfg.Entry = entry
	}
	if len(tags) > 0 {
		cfg.Build.Tags = tags
	}
	if variant != "" {
		flag := "-X main.variant=" + variant
		if cfg.Build.LDFlags != "" {
			flag = cfg.Build.LDFlags + " " + flag
		}
		cfg.Build.LDFlags = flag
	}
}

func runBuild(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	compiler := dev.NewCompiler(dev.CompilerConfig{
		ProjectPath: cfg.Dir(),
		Entry:       cfg.Entry,
		OutputDir:   cfg.OutputPath(),
		WasmFile:    config.DefaultWasmFile,
		Title:       cfg.Name,
		Tags:        cfg.Build.Tags,
		LDFlags:     cfg.Build.LDFlags,
	})

	info("Building %s...", cfg.Entry)
	result := compiler.Build(ctx)
	if !result.Success {
		return result.Error
	}
	if err := compiler.Prepare(ctx, false); err != nil {
		return err
	}

	success("Build complete in %s", result.Duration.Round(time.Millisecond))
	info("Output: %s", cfg.OutputPath())
	return nil
}
