package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/svg"
	"github.com/go-drift/shadowtree/pkg/treetest"
)

// printTree writes root as an indented tree, one node per line with its
// non-empty props.
func printTree(w io.Writer, s styles, root core.Node) error {
	snap, err := treetest.Capture(root)
	if err != nil {
		return err
	}
	if snap.Root == nil {
		return nil
	}
	printNode(w, s, root, snap.Root, "", "")
	return nil
}

func printNode(w io.Writer, s styles, n core.Node, sn *treetest.Node, prefix, childPrefix string) {
	line := prefix + s.kind(sn.Kind).String()
	if props := formatProps(sn.Props); props != "" {
		line += " " + s.faint(props).String()
	}
	if c, ok := n.(*svg.ClipPath); ok {
		line += " " + clipDecision(s, c)
	}
	fmt.Fprintln(w, line)

	p, ok := n.(core.Parent)
	if !ok {
		return
	}
	for i, child := range sn.Children {
		branch, next := "├── ", "│   "
		if i == len(sn.Children)-1 {
			branch, next = "└── ", "    "
		}
		printNode(w, s, p.ChildAt(i), child, childPrefix+branch, childPrefix+next)
	}
}

func formatProps(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, props[k]))
	}
	return strings.Join(parts, " ")
}

func clipDecision(s styles, c *svg.ClipPath) string {
	if !c.IsSimpleClipShape() {
		return s.bad("[path clip]").String()
	}
	if r, ok := c.ClipRect(); ok {
		return s.ok(fmt.Sprintf("[rect clip %g,%g %gx%g]", r.Left, r.Top, r.Width(), r.Height())).String()
	}
	return s.ok("[empty clip]").String()
}
