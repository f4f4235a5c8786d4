package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/shadowtree/pkg/builder"
	"github.com/go-drift/shadowtree/pkg/metrics"
	"github.com/go-drift/shadowtree/pkg/svg"
	"github.com/go-drift/shadowtree/pkg/treetest"
)

// Version is set at build time.
var Version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of shadowtree",
		// Version needs no config or registry.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shadowtree version %s\n", Version)
		},
	}
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newStyles(cmd.OutOrStdout())
			for _, k := range a.registry.Kinds() {
				d, _ := a.registry.Lookup(k)
				role := "leaf"
				if d.IsContainer() {
					role = "container"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.kind(k), s.faint(role))
			}
			return nil
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	var asJSON, withMetrics bool
	cmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Build the trees described in a YAML file",
		Long: `Build materializes every YAML document in FILE ("-" for stdin) and prints
the resulting trees. Elements that fail are dropped with their subtree and
listed after the tree; a failing root element fails the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.buildFile(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, results); err != nil {
					return err
				}
			} else {
				s := newStyles(w)
				for i, res := range results {
					if i > 0 {
						fmt.Fprintln(w, "---")
					}
					if err := printTree(w, s, res.Root); err != nil {
						return err
					}
					for _, ab := range res.Aborted {
						fmt.Fprintf(w, "%s %s %s: %v\n", s.bad("aborted"), ab.Path, ab.Kind, ab.Err)
					}
				}
			}
			if withMetrics {
				return metrics.WriteText(cmd.ErrOrStderr(), a.gatherer)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON snapshots instead of a tree")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Print Prometheus metrics to stderr after building")
	return cmd
}

func newClipCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clip FILE",
		Short: "Report which clip paths can be drawn as plain rectangles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.buildFile(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			s := newStyles(w)
			for _, res := range results {
				for _, c := range svg.ClipPaths(res.Root) {
					fmt.Fprintf(w, "%s %s\n", c.Renderable().Name, clipDecision(s, c))
				}
			}
			return nil
		},
	}
}

func (a *app) buildFile(cmd *cobra.Command, path string) ([]*builder.Result, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	els, err := builder.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b := builder.New(a.registry, builder.WithObserver(a.metrics))
	return b.BuildAll(cmd.Context(), els)
}

func writeJSON(w io.Writer, results []*builder.Result) error {
	type aborted struct {
		Path  string `json:"path"`
		Kind  string `json:"kind"`
		Error string `json:"error"`
	}
	type output struct {
		*treetest.Snapshot
		Aborted []aborted `json:"aborted,omitempty"`
	}

	out := make([]output, 0, len(results))
	for _, res := range results {
		snap, err := treetest.Capture(res.Root)
		if err != nil {
			return err
		}
		o := output{Snapshot: snap}
		for _, ab := range res.Aborted {
			o.Aborted = append(o.Aborted, aborted{Path: ab.Path.String(), Kind: string(ab.Kind), Error: ab.Err.Error()})
		}
		out = append(out, o)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
