package treetest

import (
	"fmt"
	"strings"

	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/svg"
	"github.com/go-drift/shadowtree/pkg/text"
)

// Finder locates nodes in a shadow tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root core.Node) []core.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []core.Node
	finder Finder
}

// Find evaluates f under root.
func Find(root core.Node, f Finder) FinderResult {
	return FinderResult{nodes: f.Evaluate(root), finder: f}
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

type predicateFinder struct {
	fn   func(core.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByKind matches nodes of the given kind.
func ByKind(kind core.KindName) Finder {
	return &predicateFinder{
		fn:   func(n core.Node) bool { return n.Kind() == kind },
		desc: fmt.Sprintf("ByKind(%s)", kind),
	}
}

// ByName matches svg elements whose name prop equals name.
func ByName(name string) Finder {
	return &predicateFinder{
		fn: func(n core.Node) bool {
			r, ok := n.(svg.Renderable)
			return ok && r.Renderable().Name == name
		},
		desc: fmt.Sprintf("ByName(%q)", name),
	}
}

// ByText matches Paragraph and Text nodes whose plain text equals s, and
// RawText nodes holding exactly s.
func ByText(s string) Finder {
	return &predicateFinder{
		fn:   func(n core.Node) bool { return isTextNode(n) && text.PlainText(n) == s },
		desc: fmt.Sprintf("ByText(%q)", s),
	}
}

// ByTextContaining is like ByText but matches a substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(n core.Node) bool { return isTextNode(n) && strings.Contains(text.PlainText(n), substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

func isTextNode(n core.Node) bool {
	switch n.(type) {
	case *text.RawText, *text.Text, *text.Paragraph:
		return true
	}
	return false
}

// ByPredicate matches nodes satisfying fn.
func ByPredicate(fn func(core.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root core.Node) []core.Node {
	var results []core.Node
	seen := make(map[core.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		p, ok := ancestor.(core.Parent)
		if !ok {
			continue
		}
		// Search each child's subtree, skipping the ancestor itself.
		for _, child := range p.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant matches nodes satisfying matching that are strict descendants
// of nodes satisfying of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root core.Node, predicate func(core.Node) bool) []core.Node {
	var results []core.Node
	core.Walk(root, func(n core.Node, _ int) bool {
		if predicate(n) {
			results = append(results, n)
		}
		return true
	})
	return results
}
