package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/rtree"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export in.svg",
		Short: "Re-normalize a document and write it to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(args[0])
			if err != nil {
				return err
			}
			return rtree.Export(t, cmd.OutOrStdout())
		},
	}
}
