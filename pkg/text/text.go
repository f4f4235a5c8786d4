// Package text defines the text kinds of a shadow tree. Character data lives
// only in RawText leaves; Text spans carry styling and Paragraph is the
// block-level root of a run of text.
package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-drift/shadowtree/pkg/core"
)

const (
	KindRawText   core.KindName = "RawText"
	KindText      core.KindName = "Text"
	KindParagraph core.KindName = "Paragraph"
)

// RawTextProps hold a run of characters.
type RawTextProps struct {
	Text string `mapstructure:"text"`
}

// RawText is a leaf holding character data.
type RawText struct {
	core.Base[RawTextProps]
}

// String returns the node's characters.
func (r *RawText) String() string {
	return r.TypedProps().Text
}

// FontWeight is a numeric CSS font weight. Zero means inherited.
type FontWeight int

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

func (w FontWeight) String() string {
	switch w {
	case 0:
		return ""
	case FontWeightNormal:
		return "normal"
	case FontWeightBold:
		return "bold"
	default:
		return strconv.Itoa(int(w))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (w FontWeight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Validate accepts zero and the multiples of 100 from 100 to 900.
func (w FontWeight) Validate() error {
	if w != 0 && (w < 100 || w > 900 || w%100 != 0) {
		return fmt.Errorf("invalid font weight %d", int(w))
	}
	return nil
}

// UnmarshalText accepts "normal", "bold" and the multiples of 100 from 100
// to 900.
func (w *FontWeight) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "", "inherit":
		*w = 0
	case "normal":
		*w = FontWeightNormal
	case "bold":
		*w = FontWeightBold
	default:
		n, err := strconv.Atoi(s)
		if err != nil || n == 0 || FontWeight(n).Validate() != nil {
			return fmt.Errorf("invalid font weight %q", s)
		}
		*w = FontWeight(n)
	}
	return nil
}

// TextProps style a span of text. Zero values inherit from the parent.
type TextProps struct {
	FontSize      float64    `mapstructure:"fontSize"`
	FontWeight    FontWeight `mapstructure:"fontWeight"`
	Color         string     `mapstructure:"color"`
	LetterSpacing float64    `mapstructure:"letterSpacing"`
}

func (p TextProps) Validate() error {
	if math.IsNaN(p.FontSize) || math.IsInf(p.FontSize, 0) || p.FontSize < 0 {
		return fmt.Errorf("fontSize must be a non-negative number, got %v", p.FontSize)
	}
	if math.IsNaN(p.LetterSpacing) || math.IsInf(p.LetterSpacing, 0) {
		return fmt.Errorf("letterSpacing must be finite, got %v", p.LetterSpacing)
	}
	if err := p.FontWeight.Validate(); err != nil {
		return err
	}
	return validateColor(p.Color)
}

// validateColor accepts an empty string, a name, or #rgb, #rgba, #rrggbb and
// #rrggbbaa hex forms.
func validateColor(c string) error {
	hex, ok := strings.CutPrefix(c, "#")
	if !ok {
		return nil
	}
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return fmt.Errorf("invalid color %q", c)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return fmt.Errorf("invalid color %q", c)
	}
	return nil
}

// Text is a styled span containing RawText and nested Text.
type Text struct {
	core.Base[TextProps]
	spans
}

// EllipsizeMode selects where truncated text is elided.
type EllipsizeMode int

const (
	EllipsizeTail EllipsizeMode = iota
	EllipsizeHead
	EllipsizeMiddle
	EllipsizeClip
)

var ellipsizeNames = [...]string{"tail", "head", "middle", "clip"}

func (m EllipsizeMode) String() string {
	if m < 0 || int(m) >= len(ellipsizeNames) {
		return fmt.Sprintf("EllipsizeMode(%d)", int(m))
	}
	return ellipsizeNames[m]
}

// Validate rejects undefined modes.
func (m EllipsizeMode) Validate() error {
	if m < 0 || int(m) >= len(ellipsizeNames) {
		return fmt.Errorf("unknown ellipsize mode %d", int(m))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m EllipsizeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *EllipsizeMode) UnmarshalText(text []byte) error {
	for i, name := range ellipsizeNames {
		if name == string(text) {
			*m = EllipsizeMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown ellipsize mode %q", text)
}

// ParagraphProps control truncation of a paragraph.
type ParagraphProps struct {
	// NumberOfLines limits the line count; zero means unlimited.
	NumberOfLines int           `mapstructure:"numberOfLines"`
	EllipsizeMode EllipsizeMode `mapstructure:"ellipsizeMode"`
}

func (p ParagraphProps) Validate() error {
	if p.NumberOfLines < 0 {
		return fmt.Errorf("numberOfLines must be non-negative, got %d", p.NumberOfLines)
	}
	return p.EllipsizeMode.Validate()
}

// Paragraph is the root of a block of text.
type Paragraph struct {
	core.Base[ParagraphProps]
	spans
}

// spans restricts children to RawText and Text.
type spans struct {
	core.Container
}

func (*spans) AcceptChild(child core.Node) error {
	switch child.(type) {
	case *RawText, *Text:
		return nil
	}
	return fmt.Errorf("text containers accept RawText and Text, got %s", child.Kind())
}

var (
	RawTextDescriptor   = core.NewConcreteDescriptor[RawText, RawTextProps](KindRawText)
	TextDescriptor      = core.NewConcreteDescriptor[Text, TextProps](KindText)
	ParagraphDescriptor = core.NewConcreteDescriptor[Paragraph, ParagraphProps](KindParagraph)
)

// Descriptors returns the descriptors of every kind in this package.
func Descriptors() []core.Descriptor {
	return []core.Descriptor{RawTextDescriptor, TextDescriptor, ParagraphDescriptor}
}

// PlainText concatenates the RawText content under n in document order.
func PlainText(n core.Node) string {
	var b strings.Builder
	core.Walk(n, func(n core.Node, _ int) bool {
		if r, ok := n.(*RawText); ok {
			b.WriteString(r.TypedProps().Text)
		}
		return true
	})
	return b.String()
}
