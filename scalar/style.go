package scalar

import "gopkg.in/yaml.v3"

// Style is the quoting or block style a scalar was written with.
type Style uint8

const (
	StylePlain Style = iota
	StyleSingleQuoted
	StyleDoubleQuoted
	StyleLiteral
	StyleFolded
)

func (s Style) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleSingleQuoted:
		return "single-quoted"
	case StyleDoubleQuoted:
		return "double-quoted"
	case StyleLiteral:
		return "literal"
	case StyleFolded:
		return "folded"
	default:
		return "unknown"
	}
}

// SuppressesInference reports whether a scalar written in this style always decodes as a string.
func (s Style) SuppressesInference() bool {
	return s != StylePlain
}

// YAMLStyle returns the yaml.v3 presentation style for s.
func (s Style) YAMLStyle() yaml.Style {
	switch s {
	case StyleSingleQuoted:
		return yaml.SingleQuotedStyle
	case StyleDoubleQuoted:
		return yaml.DoubleQuotedStyle
	case StyleLiteral:
		return yaml.LiteralStyle
	case StyleFolded:
		return yaml.FoldedStyle
	default:
		return 0
	}
}

// StyleFromNode extracts the quoting style of a parsed scalar node, ignoring the tagged and flow bits.
func StyleFromNode(node *yaml.Node) Style {
	if node == nil {
		return StylePlain
	}

	switch {
	case node.Style&yaml.DoubleQuotedStyle != 0:
		return StyleDoubleQuoted
	case node.Style&yaml.SingleQuotedStyle != 0:
		return StyleSingleQuoted
	case node.Style&yaml.LiteralStyle != 0:
		return StyleLiteral
	case node.Style&yaml.FoldedStyle != 0:
		return StyleFolded
	default:
		return StylePlain
	}
}
