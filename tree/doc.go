// Package tree is the immutable render tree: a normalized scene graph of
// groups, paths, images and flattened text, ready to be rasterized.
//
// Trees are built bottom-up with the node constructors and frozen by New,
// which validates the structure, bakes rendering defaults and computes
// absolute transforms and bounding boxes. After New returns, a Tree is safe
// for concurrent use by any number of readers and renderers.
//
// Example:
//
//	red := tree.NewFill(tree.Color{R: 255, A: 255}, 1, tree.FillRuleNonZero)
//	p := tree.NewPath("box", tree.Identity(), []tree.Segment{
//	    tree.MoveTo(10, 10), tree.LineTo(90, 10), tree.LineTo(90, 90), tree.Close(),
//	}, tree.WithFill(red))
//	root := tree.NewGroup("", tree.Identity(), []tree.Node{p})
//	t, err := tree.New(tree.Size{W: 100, H: 100}, root, tree.Options{})
//
// Nodes are matched with type switches:
//
//	switch n := node.(type) {
//	case *tree.Group:
//	case *tree.Path:
//	case *tree.Image:
//	case *tree.Text:
//	}
package tree
