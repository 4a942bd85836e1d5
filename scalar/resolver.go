// Package scalar classifies YAML scalar text into typed values and renders typed values back to scalar text
// with a quoting decision that survives a further decode.
package scalar

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/speakeasy-api/yamlcodec/errors"
	"github.com/speakeasy-api/yamlcodec/values"
	"github.com/speakeasy-api/yamlcodec/yml"
)

const (
	// ErrTagMismatch is returned when a scalar carries an explicit core tag its text cannot satisfy.
	ErrTagMismatch = errors.Error("scalar does not satisfy its explicit tag")
	// ErrUnsupportedScalarType is returned when a value has no defined scalar rendering.
	ErrUnsupportedScalarType = errors.Error("unsupported scalar type")
)

// timestampLayouts are the layouts accepted for explicitly tagged timestamps, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

// Resolver turns raw scalar text into a typed value.
type Resolver struct {
	Format FormatOptions
	// Logger receives debug diagnostics for degraded scalars. nil discards them.
	Logger log.Logger
}

func NewResolver(opts FormatOptions, logger log.Logger) Resolver {
	return Resolver{Format: opts, Logger: logger}
}

func (r Resolver) logger() log.Logger {
	if r.Logger == nil {
		return log.NewNopLogger()
	}
	return r.Logger
}

// Resolve classifies a scalar.
//
// Quoted and block scalars, and every scalar when scalarsAsStrings is set, are strings.
// An explicit tag is honoured or the scalar fails with ErrTagMismatch; tags outside the core schema degrade to a string.
// Anything else goes through ResolvePlain.
func (r Resolver) Resolve(text, tag string, style Style, scalarsAsStrings bool) (values.Value, error) {
	if style.SuppressesInference() || scalarsAsStrings {
		return values.String(text), nil
	}

	if tag != "" {
		return r.resolveTagged(text, yml.ShortTag(tag))
	}

	return r.ResolvePlain(text), nil
}

func (r Resolver) resolveTagged(text, tag string) (values.Value, error) {
	switch tag {
	case yml.TagStr:
		return values.String(text), nil
	case yml.TagNull:
		return values.Null{}, nil
	case yml.TagBool:
		if b, ok := r.parseBool(text); ok {
			return values.Bool(b), nil
		}
	case yml.TagInt:
		if i, ok := parseTaggedInt(text); ok {
			return values.Int(i), nil
		}
	case yml.TagFloat:
		if f, ok := r.parseFloat(text, true); ok {
			return values.Float(f), nil
		}
	case yml.TagTimestamp:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return values.Timestamp(t), nil
			}
		}
	default:
		level.Debug(r.logger()).Log("msg", "unrecognized tag, treating scalar as string", "tag", tag, "text", text)
		return values.String(text), nil
	}

	return nil, ErrTagMismatch.Wrapf("%q is not a valid %s", text, tag)
}

type plainAttempt struct {
	name  string
	parse func(r Resolver, text string) (values.Value, bool)
}

// plainAttempts is the tie-break order for untagged plain scalars.
var plainAttempts = []plainAttempt{
	{name: "int", parse: func(_ Resolver, text string) (values.Value, bool) {
		i, err := strconv.ParseInt(text, 10, 64)
		return values.Int(i), err == nil
	}},
	{name: "float", parse: func(r Resolver, text string) (values.Value, bool) {
		f, ok := r.parseFloat(text, false)
		return values.Float(f), ok
	}},
	{name: "bool", parse: func(r Resolver, text string) (values.Value, bool) {
		b, ok := r.parseBool(text)
		return values.Bool(b), ok
	}},
	{name: "timestamp", parse: func(_ Resolver, text string) (values.Value, bool) {
		t, err := time.Parse(time.RFC3339Nano, text)
		return values.Timestamp(t), err == nil
	}},
}

// ResolvePlain classifies an untagged plain scalar.
// Empty text, whitespace, ~ and null are Null. Otherwise int, float, bool and timestamp are tried in that order
// and a candidate is kept only when its canonical rendering folds equal to text, so lossy readings such as 007 stay strings.
func (r Resolver) ResolvePlain(text string) values.Value {
	if r.isNull(text) {
		return values.Null{}
	}

	for _, attempt := range plainAttempts {
		v, ok := attempt.parse(r, text)
		if !ok {
			continue
		}

		canonical, err := Format(v)
		if err == nil && r.Format.EqualFold(canonical, text) {
			return v
		}

		level.Debug(r.logger()).Log("msg", "plain scalar coercion rejected", "type", attempt.name, "text", text, "canonical", canonical)
	}

	return values.String(text)
}

func (r Resolver) isNull(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || trimmed == "~" || r.Format.Fold(trimmed) == "null"
}

func (r Resolver) parseBool(text string) (bool, bool) {
	switch r.Format.Fold(text) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// parseTaggedInt reads the core schema int forms: decimal with an optional sign, 0x hexadecimal and 0o octal.
// Leading zeros are decimal.
func parseTaggedInt(text string) (int64, bool) {
	base := 10
	digits := text
	switch {
	case strings.HasPrefix(text, "0x"):
		base, digits = 16, text[2:]
	case strings.HasPrefix(text, "0o"):
		base, digits = 8, text[2:]
	}

	if base != 10 && (digits == "" || digits[0] == '+' || digits[0] == '-') {
		return 0, false
	}

	i, err := strconv.ParseInt(digits, base, 64)
	return i, err == nil
}

// parseFloat accepts the YAML non-finite spellings and anything strconv can parse.
// allowPlus additionally accepts +.inf, which only explicitly tagged floats may use.
func (r Resolver) parseFloat(text string, allowPlus bool) (float64, bool) {
	switch r.Format.Fold(text) {
	case nanLiteral:
		return math.NaN(), true
	case infLiteral:
		return math.Inf(1), true
	case negInfLiteral:
		return math.Inf(-1), true
	case "+" + infLiteral:
		if allowPlus {
			return math.Inf(1), true
		}
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
