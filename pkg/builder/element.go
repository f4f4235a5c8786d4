package builder

import (
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/shadowtree/pkg/core"
)

// Element describes one node to materialize: its kind, raw props and
// children.
//
// In YAML:
//
//	kind: ClipPath
//	props: {name: clip}
//	children:
//	  - kind: Rect
//	    props: {width: 10, height: 10}
type Element struct {
	Kind     core.KindName `yaml:"kind" json:"kind"`
	Props    core.RawProps `yaml:"props,omitempty" json:"props,omitempty"`
	Children []Element     `yaml:"children,omitempty" json:"children,omitempty"`
}

// Decode reads every YAML document in r as a root Element.
func Decode(r io.Reader) ([]Element, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var roots []Element
	for i := 0; ; i++ {
		var el Element
		err := dec.Decode(&el)
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if el.Kind == "" {
			return nil, fmt.Errorf("document %d: missing kind", i)
		}
		roots = append(roots, el)
	}
	return roots, nil
}

// Count returns the number of elements in the description rooted at el.
func (el Element) Count() int {
	n := 1
	for _, c := range el.Children {
		n += c.Count()
	}
	return n
}
