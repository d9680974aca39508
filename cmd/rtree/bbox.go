package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/rtree"
)

func newBBoxCmd(g *globalFlags) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "bbox in.svg",
		Short: "Print the object and stroke bounding boxes in canvas coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(args[0])
			if err != nil {
				return err
			}
			return printBBoxes(cmd.OutOrStdout(), t, id)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "measure only the node with this id")
	return cmd
}

func printBBoxes(w io.Writer, t *rtree.Tree, id string) error {
	var (
		obj, strk rtree.Rect
		ok        bool
	)
	if id == "" {
		obj, ok = t.ObjectBBox()
		strk, _ = t.ImageBBox()
	} else {
		if !t.NodeExists(id) {
			return fmt.Errorf("node %q not found", id)
		}
		obj, ok = t.NodeBBox(id)
		strk, _ = t.NodeStrokeBBox(id)
	}
	if !ok {
		_, err := fmt.Fprintln(w, "empty")
		return err
	}
	_, err := fmt.Fprintf(w, "object %g %g %g %g\nstroke %g %g %g %g\n",
		obj.X, obj.Y, obj.W, obj.H, strk.X, strk.Y, strk.W, strk.H)
	return err
}
