package main

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/go-drift/shadowtree/pkg/catalog"
	"github.com/go-drift/shadowtree/pkg/config"
	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/errors"
	"github.com/go-drift/shadowtree/pkg/logging"
	"github.com/go-drift/shadowtree/pkg/metrics"
)

// app carries the state shared by subcommands once flags are parsed.
type app struct {
	configDir string
	logLevel  string
	verbose   bool

	cfg      *config.Resolved
	registry *core.Registry
	metrics  *metrics.Collector
	gatherer *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "shadowtree",
		Short: "Build and inspect shadow trees",
		Long: `shadowtree materializes element descriptions into immutable shadow trees
through the built-in kind registry, and reports how they would be rendered.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config", ".", "Directory containing "+config.FileName)
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flags.BoolVar(&a.verbose, "verbose", false, "Include stack traces in reported errors")

	root.AddCommand(
		newKindsCmd(a),
		newBuildCmd(a),
		newClipCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Resolve(a.configDir)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		level, ok := logging.ParseLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		cfg.LogLevel = level
	}
	if a.verbose {
		cfg.Verbose = true
	}
	a.cfg = cfg

	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	logging.SetLogger(logger)
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: cfg.Verbose})

	a.metrics = metrics.New()
	a.gatherer = prometheus.NewRegistry()
	if err := a.gatherer.Register(a.metrics); err != nil {
		return err
	}
	a.registry, err = catalog.FromConfig(cfg, core.WithObserver(a.metrics), core.WithLogger(logger))
	return err
}

// styles holds the terminal colors used in command output.
type styles struct {
	out *termenv.Output
}

func newStyles(w io.Writer) styles {
	return styles{out: termenv.NewOutput(w)}
}

func (s styles) kind(k core.KindName) termenv.Style {
	return s.out.String(string(k)).Foreground(s.out.Color("#818cf8")).Bold()
}

func (s styles) faint(v string) termenv.Style {
	return s.out.String(v).Faint()
}

func (s styles) ok(v string) termenv.Style {
	return s.out.String(v).Foreground(s.out.Color("#4ade80"))
}

func (s styles) bad(v string) termenv.Style {
	return s.out.String(v).Foreground(s.out.Color("#fb7185"))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
