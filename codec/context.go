package codec

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/speakeasy-api/yamlcodec/scalar"
)

const (
	DefaultMaxRecursionDepth = 1024
	DefaultIndent            = 2
	// DefaultMaxExpandedNodes bounds the number of nodes a document may expand to once aliases are followed.
	DefaultMaxExpandedNodes = 10_000_000
)

// OutputShape selects the container produced for every mapping in a decoded document.
type OutputShape int

const (
	// ShapeRecord decodes mappings to *sequencedmap.Map[string, any] keyed by the raw key text.
	ShapeRecord OutputShape = iota
	// ShapeOrderedMap decodes mappings to *sequencedmap.Map[any, any] keyed by decoded scalar keys.
	ShapeOrderedMap
	// ShapeUnorderedMap decodes mappings to map[any]any keyed by decoded scalar keys.
	ShapeUnorderedMap
)

func (s OutputShape) String() string {
	switch s {
	case ShapeRecord:
		return "record"
	case ShapeOrderedMap:
		return "ordered"
	case ShapeUnorderedMap:
		return "unordered"
	default:
		return fmt.Sprintf("OutputShape(%d)", int(s))
	}
}

// ParseOutputShape parses the name returned by OutputShape.String.
func ParseOutputShape(name string) (OutputShape, error) {
	switch strings.ToLower(name) {
	case "record":
		return ShapeRecord, nil
	case "ordered":
		return ShapeOrderedMap, nil
	case "unordered":
		return ShapeUnorderedMap, nil
	default:
		return 0, fmt.Errorf("unknown output shape %q", name)
	}
}

func (s OutputShape) usesRawKeys() bool {
	return s == ShapeRecord
}

// DecodeContext configures a decode. It is passed by value and never modified during a decode.
type DecodeContext struct {
	OutputShape      OutputShape
	ScalarsAsStrings bool
	Format           scalar.FormatOptions
	// Logger receives debug diagnostics for degraded scalars. nil discards them.
	Logger log.Logger
	// MaxExpandedNodes limits alias expansion. 0 disables the limit.
	MaxExpandedNodes int
}

type DecodeOption func(c *DecodeContext)

// NewDecodeContext returns a DecodeContext with defaults applied, then opts.
func NewDecodeContext(opts ...DecodeOption) DecodeContext {
	c := DecodeContext{
		OutputShape:      ShapeRecord,
		Format:           scalar.DefaultFormatOptions(),
		Logger:           log.NewNopLogger(),
		MaxExpandedNodes: DefaultMaxExpandedNodes,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithOutputShape(shape OutputShape) DecodeOption {
	return func(c *DecodeContext) { c.OutputShape = shape }
}

func WithScalarsAsStrings(enabled bool) DecodeOption {
	return func(c *DecodeContext) { c.ScalarsAsStrings = enabled }
}

func WithDecodeFormat(format scalar.FormatOptions) DecodeOption {
	return func(c *DecodeContext) { c.Format = format }
}

func WithLogger(logger log.Logger) DecodeOption {
	return func(c *DecodeContext) { c.Logger = logger }
}

func WithMaxExpandedNodes(limit int) DecodeOption {
	return func(c *DecodeContext) { c.MaxExpandedNodes = limit }
}

// EncodeContext configures an encode. It is passed by value and never modified during an encode.
type EncodeContext struct {
	// DisableAliases emits every repeated substructure in full.
	DisableAliases bool
	// JSONCompatible renders the document with strict JSON grammar.
	JSONCompatible bool
	// MaxRecursionDepth bounds container nesting. Values <= 0 use DefaultMaxRecursionDepth.
	MaxRecursionDepth int
	// Indent is the number of spaces per nesting level. Values <= 0 use DefaultIndent.
	Indent int
	Format scalar.FormatOptions
}

type EncodeOption func(c *EncodeContext)

// NewEncodeContext returns an EncodeContext with defaults applied, then opts.
// Aliases are disabled by default.
func NewEncodeContext(opts ...EncodeOption) EncodeContext {
	c := EncodeContext{
		DisableAliases:    true,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
		Indent:            DefaultIndent,
		Format:            scalar.DefaultFormatOptions(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithAliases(enabled bool) EncodeOption {
	return func(c *EncodeContext) { c.DisableAliases = !enabled }
}

func WithJSONCompatible(enabled bool) EncodeOption {
	return func(c *EncodeContext) { c.JSONCompatible = enabled }
}

func WithMaxRecursionDepth(depth int) EncodeOption {
	return func(c *EncodeContext) { c.MaxRecursionDepth = depth }
}

func WithIndent(indent int) EncodeOption {
	return func(c *EncodeContext) { c.Indent = indent }
}

func WithEncodeFormat(format scalar.FormatOptions) EncodeOption {
	return func(c *EncodeContext) { c.Format = format }
}

func (c EncodeContext) maxDepth() int {
	if c.MaxRecursionDepth <= 0 {
		return DefaultMaxRecursionDepth
	}
	return c.MaxRecursionDepth
}

func (c EncodeContext) indent() int {
	if c.Indent <= 0 {
		return DefaultIndent
	}
	return c.Indent
}
