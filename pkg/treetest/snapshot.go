// Package treetest provides helpers for testing shadow trees: finders that
// locate nodes, and JSON snapshots compared against golden files.
package treetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/go-drift/shadowtree/pkg/core"
)

// UpdateEnv is the environment variable that makes MatchesFile rewrite
// golden files instead of comparing.
const UpdateEnv = "SHADOWTREE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is a serializable copy of a shadow tree.
type Snapshot struct {
	Root *Node `json:"root"`
}

// Node is one node of a snapshot.
type Node struct {
	ID       string         `json:"id"`
	Kind     core.KindName  `json:"kind"`
	Props    map[string]any `json:"props,omitempty"`
	Children []*Node        `json:"children,omitempty"`
}

// Capture snapshots the tree under root. Props are encoded by their raw
// names; empty strings, nil values and empty lists are omitted and floats
// are rounded to two decimals.
func Capture(root core.Node) (*Snapshot, error) {
	if root == nil {
		return &Snapshot{}, nil
	}
	counter := &kindCounter{}
	n, err := captureNode(root, counter)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Root: n}, nil
}

// MustCapture is Capture that fails t on error.
func MustCapture(t TestingT, root core.Node) *Snapshot {
	t.Helper()
	s, err := Capture(root)
	if err != nil {
		t.Fatalf("capture snapshot: %v", err)
	}
	return s
}

// Bytes returns the indented JSON written to golden files.
func (s *Snapshot) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a unified diff and instructions for updating. When
// SHADOWTREE_UPDATE_SNAPSHOTS=1 is set, the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads a snapshot written by UpdateFile.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

// Diff returns a unified diff from other (expected) to s (actual), or ""
// if they serialize identically.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := s.Bytes()
	b, _ := other.Bytes()
	if bytes.Equal(a, b) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(b)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("snapshots differ (diff failed: %v)", err)
	}
	return diff
}

// kindCounter assigns stable IDs like "Rect#0", "Rect#1".
type kindCounter struct {
	counts map[core.KindName]int
}

func (c *kindCounter) next(kind core.KindName) string {
	if c.counts == nil {
		c.counts = make(map[core.KindName]int)
	}
	n := c.counts[kind]
	c.counts[kind] = n + 1
	return fmt.Sprintf("%s#%d", kind, n)
}

func captureNode(n core.Node, counter *kindCounter) (*Node, error) {
	out := &Node{ID: counter.next(n.Kind()), Kind: n.Kind()}

	props, err := captureProps(n.Props())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", out.ID, err)
	}
	if len(props) > 0 {
		out.Props = props
	}

	if p, ok := n.(core.Parent); ok {
		for _, child := range p.Children() {
			c, err := captureNode(child, counter)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, c)
		}
	}
	return out, nil
}

// captureProps encodes props and round-trips them through JSON so captured
// and loaded snapshots share one representation.
func captureProps(props any) (map[string]any, error) {
	if props == nil {
		return nil, nil
	}
	if v := reflect.ValueOf(props); v.Kind() == reflect.Struct && v.NumField() == 0 {
		return nil, nil
	}
	raw, err := core.EncodeProps(props)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	for k, v := range generic {
		v = normalize(v)
		if isEmpty(v) {
			delete(generic, k)
			continue
		}
		generic[k] = v
	}
	return generic, nil
}

func normalize(v any) any {
	switch v := v.(type) {
	case float64:
		return round2(v)
	case []any:
		for i := range v {
			v[i] = normalize(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalize(v[k])
		}
		return v
	}
	return v
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
