package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/rtree"
)

type globalFlags struct {
	options string
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "rtree",
		Short:         "Render and inspect normalized SVG render trees",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.verbose {
				rtree.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
				return
			}
			rtree.InitLog()
		},
	}
	root.PersistentFlags().StringVar(&g.options, "options", "", "TOML file with import options")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(newRenderCmd(g), newBBoxCmd(g), newExportCmd(g))
	return root
}

// load reads the options file, if any, and imports the document at path.
func (g *globalFlags) load(path string) (*rtree.Tree, error) {
	opts := rtree.DefaultOptions()
	if g.options != "" {
		var err error
		if opts, err = rtree.LoadOptions(g.options); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rtree.ErrFileOpen, err)
	}
	defer func() { _ = f.Close() }()

	t, err := rtree.Import(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", path, rtree.StatusOf(err), err)
	}
	return t, nil
}
