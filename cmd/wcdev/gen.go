package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-elements/internal/gen"
)

func genCmd() *cobra.Command {
	var (
		dir string
		out string
	)

	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate component registration code",
		Long: `Find exported component types with a constant TagName in the given
packages and write ` + gen.OutputFile + ` with a RegisterComponents
function into the output package.

Examples:
  wcdev gen ./components/...
  wcdev gen --out=./cmd/app ./components/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			return runGen(gen.Options{Dir: dir, Patterns: args, Output: out})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Module directory packages are resolved against")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Directory of the package receiving the generated file")

	return cmd
}

func runGen(opts gen.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, descs, err := gen.Run(ctx, opts)
	if err != nil {
		return err
	}

	if len(descs) == 0 {
		warn("No components found")
	}
	for _, d := range descs {
		info("<%s> %s.%s", d.Tag, d.ImportPath, d.TypeName)
	}
	success("Wrote %s", path)
	return nil
}
