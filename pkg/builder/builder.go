// Package builder materializes element descriptions into shadow trees
// through a registry.
//
// A failing element aborts only its own subtree: the error is recorded in
// [Result.Aborted], reported to the global error handler, and the parent is
// built without that child. Only a failure of the root element fails the
// whole build.
package builder

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/errors"
	"github.com/go-drift/shadowtree/pkg/logging"
)

// DefaultMaxDepth bounds element nesting.
const DefaultMaxDepth = 256

// Factory creates and re-parents nodes. *core.Registry implements it.
type Factory interface {
	Create(kind core.KindName, props core.RawProps) (core.Node, error)
	CloneWithChildren(n core.Node, children []core.Node) (core.Node, error)
}

// Observer is notified after each successful build.
type Observer interface {
	BuildFinished(d time.Duration, aborted int)
}

// Path locates an element by child indexes from the root.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// Abort records a subtree dropped from a build.
type Abort struct {
	Path Path
	Kind core.KindName
	Err  error
}

// Result is the outcome of a build.
type Result struct {
	Root    core.Node
	Aborted []Abort
}

// Complete reports whether every element was materialized.
func (r *Result) Complete() bool {
	return len(r.Aborted) == 0
}

// Builder builds trees. It is safe for concurrent use if its Factory is.
type Builder struct {
	factory  Factory
	logger   *slog.Logger
	observer Observer
	maxDepth int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger. Defaults to [logging.Logger].
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithObserver attaches a build observer.
func WithObserver(o Observer) Option {
	return func(b *Builder) {
		b.observer = o
	}
}

// WithMaxDepth overrides [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// New returns a Builder creating nodes through f.
func New(f Factory, opts ...Option) *Builder {
	b := &Builder{factory: f, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return logging.Logger()
}

// Build materializes el depth-first. The returned error is non-nil only if
// the root element fails, the context is done, or the result is not a tree.
func (b *Builder) Build(ctx context.Context, el Element) (*Result, error) {
	start := time.Now()
	res := &Result{}
	root, err := b.build(ctx, el, nil, res)
	if err != nil {
		return nil, err
	}
	if err := core.CheckTree(root); err != nil {
		return nil, err
	}
	res.Root = root

	elapsed := time.Since(start)
	b.log().Debug("tree built",
		"kind", el.Kind,
		"nodes", core.Count(root),
		"aborted", len(res.Aborted),
		"duration", elapsed)
	if b.observer != nil {
		b.observer.BuildFinished(elapsed, len(res.Aborted))
	}
	return res, nil
}

// BuildAll builds independent trees concurrently. Results are in input
// order. The first root failure cancels the remaining builds and is
// returned.
func (b *Builder) BuildAll(ctx context.Context, els []Element) ([]*Result, error) {
	results := make([]*Result, len(els))
	g, ctx := errgroup.WithContext(ctx)
	for i, el := range els {
		g.Go(func() (err error) {
			defer errors.RecoverError("builder.BuildAll", string(el.Kind), &err)
			res, err := b.Build(ctx, el)
			if err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Builder) build(ctx context.Context, el Element, path Path, res *Result) (n core.Node, err error) {
	const op = "builder.Build"
	defer errors.RecoverError(op, string(el.Kind), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(path) >= b.maxDepth {
		return nil, errors.InvalidChildren(op, string(el.Kind), "nesting exceeds %d levels at %s", b.maxDepth, path)
	}

	n, err = b.factory.Create(el.Kind, el.Props)
	if err != nil {
		return nil, err
	}
	if len(el.Children) == 0 {
		return n, nil
	}
	if !core.IsContainer(n) {
		return nil, errors.InvalidChildren(op, string(el.Kind), "%s does not accept children", el.Kind)
	}
	acceptor, _ := n.(core.ChildAcceptor)

	children := make([]core.Node, 0, len(el.Children))
	for i, child := range el.Children {
		childPath := append(slices.Clip(path), i)
		c, err := b.build(ctx, child, childPath, res)
		if err == nil && acceptor != nil {
			if aerr := acceptor.AcceptChild(c); aerr != nil {
				err = errors.New(op, errors.KindInvalidChildren, string(child.Kind), aerr)
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.abort(res, Abort{Path: childPath, Kind: child.Kind, Err: err})
			continue
		}
		children = append(children, c)
	}
	if len(children) == 0 {
		return n, nil
	}
	return b.factory.CloneWithChildren(n, children)
}

func (b *Builder) abort(res *Result, a Abort) {
	res.Aborted = append(res.Aborted, a)
	b.log().Warn("subtree aborted", "path", a.Path.String(), "kind", a.Kind, "err", a.Err)

	var pe *errors.PanicError
	if stderrors.As(a.Err, &pe) {
		errors.ReportPanic(pe)
		return
	}
	var ne *errors.NodeError
	if !stderrors.As(a.Err, &ne) {
		ne = errors.New("builder.Build", errors.KindUnknown, string(a.Kind), a.Err)
	}
	errors.Report(ne)
}
