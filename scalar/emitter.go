package scalar

import (
	"math"
	"strings"

	"github.com/speakeasy-api/yamlcodec/values"
	"github.com/speakeasy-api/yamlcodec/yml"
)

// Rendered is the final text, style and tag for one scalar.
type Rendered struct {
	Text  string
	Style Style
	Tag   string
}

// StringPolicy decides the style for a string scalar. It reports false when it has no opinion
// and the next policy in the list should run.
type StringPolicy func(text string) (Style, bool)

// Emitter renders typed scalars for output.
type Emitter struct {
	jsonCompatible bool
	policies       []StringPolicy
}

// NewEmitter creates an emitter for type preserving YAML output, or strict JSON scalar grammar when jsonCompatible is set.
func NewEmitter(jsonCompatible bool, opts FormatOptions) *Emitter {
	e := &Emitter{
		jsonCompatible: jsonCompatible,
	}

	if jsonCompatible {
		e.policies = []StringPolicy{QuoteAll}
	} else {
		resolver := NewResolver(opts, nil)
		e.policies = []StringPolicy{
			BlockIfMultiline,
			QuoteIfMisread(resolver),
			QuoteLegacyBooleans(opts),
			QuoteMergeKey,
			Plain,
		}
	}

	return e
}

func (e *Emitter) JSONCompatible() bool {
	return e.jsonCompatible
}

// Render produces the text, style and tag for v.
func (e *Emitter) Render(v values.Value) (Rendered, error) {
	switch v := v.(type) {
	case nil, values.Null:
		return Rendered{Text: "null", Tag: yml.TagNull}, nil
	case values.Bool:
		return Rendered{Text: FormatBool(bool(v)), Tag: yml.TagBool}, nil
	case values.Int:
		return Rendered{Text: FormatInt(int64(v)), Tag: yml.TagInt}, nil
	case values.Float:
		f := float64(v)
		if e.jsonCompatible && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return Rendered{}, ErrUnsupportedScalarType.Wrapf("non-finite float %s has no JSON representation", FormatFloat(f))
		}
		return Rendered{Text: FormatFloat(f), Tag: yml.TagFloat}, nil
	case values.Timestamp:
		text := FormatTimestamp(v.Time())
		if e.jsonCompatible {
			return Rendered{Text: text, Style: StyleDoubleQuoted, Tag: yml.TagStr}, nil
		}
		return Rendered{Text: text, Tag: yml.TagTimestamp}, nil
	case values.String:
		return Rendered{Text: string(v), Style: e.stringStyle(string(v)), Tag: yml.TagStr}, nil
	case values.Opaque:
		return Rendered{}, ErrUnsupportedScalarType.Wrapf("%T has no scalar rendering", v.Value)
	default:
		return Rendered{}, ErrUnsupportedScalarType.Wrapf("%s is not a scalar", v.Kind())
	}
}

func (e *Emitter) stringStyle(text string) Style {
	for _, policy := range e.policies {
		if style, ok := policy(text); ok {
			return style
		}
	}
	return StylePlain
}

// BlockIfMultiline uses a literal block for text spanning several lines.
// Block scalars cannot carry carriage returns, unicode line separators, a leading line break
// or text made only of line breaks, so those are double quoted.
func BlockIfMultiline(text string) (Style, bool) {
	if strings.ContainsAny(text, "\r\u0085\u2028\u2029") {
		return StyleDoubleQuoted, true
	}
	if strings.HasPrefix(text, "\n") || (text != "" && strings.Trim(text, "\n") == "") {
		return StyleDoubleQuoted, true
	}
	if strings.Contains(text, "\n") {
		return StyleLiteral, true
	}
	return StylePlain, false
}

// QuoteIfMisread double quotes text that a plain scalar decode would classify as something other than a string.
func QuoteIfMisread(resolver Resolver) StringPolicy {
	return func(text string) (Style, bool) {
		if resolver.ResolvePlain(text).Kind() != values.KindString {
			return StyleDoubleQuoted, true
		}
		return StylePlain, false
	}
}

// QuoteLegacyBooleans double quotes the YAML 1.1 boolean words so older parsers read them as strings too.
func QuoteLegacyBooleans(opts FormatOptions) StringPolicy {
	return func(text string) (Style, bool) {
		switch opts.Fold(text) {
		case "y", "n", "yes", "no", "on", "off":
			return StyleDoubleQuoted, true
		}
		return StylePlain, false
	}
}

// QuoteMergeKey double quotes the merge key text so it is not expanded as a merge on decode.
func QuoteMergeKey(text string) (Style, bool) {
	if text == "<<" {
		return StyleDoubleQuoted, true
	}
	return StylePlain, false
}

func QuoteAll(string) (Style, bool) {
	return StyleDoubleQuoted, true
}

func Plain(string) (Style, bool) {
	return StylePlain, true
}
