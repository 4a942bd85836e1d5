package scalar_test

import (
	"math"
	"testing"
	"time"

	"github.com/speakeasy-api/yamlcodec/scalar"
	"github.com/speakeasy-api/yamlcodec/values"
	"github.com/speakeasy-api/yamlcodec/yml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmitter_Render_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		value    values.Value
		expected scalar.Rendered
	}{
		{name: "null", value: values.Null{}, expected: scalar.Rendered{Text: "null", Tag: yml.TagNull}},
		{name: "bool", value: values.Bool(false), expected: scalar.Rendered{Text: "false", Tag: yml.TagBool}},
		{name: "int", value: values.Int(-42), expected: scalar.Rendered{Text: "-42", Tag: yml.TagInt}},
		{name: "whole float", value: values.Float(1), expected: scalar.Rendered{Text: "1.0", Tag: yml.TagFloat}},
		{name: "nan", value: values.Float(math.NaN()), expected: scalar.Rendered{Text: ".nan", Tag: yml.TagFloat}},
		{name: "negative infinity", value: values.Float(math.Inf(-1)), expected: scalar.Rendered{Text: "-.inf", Tag: yml.TagFloat}},
		{name: "timestamp", value: values.Timestamp(time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)), expected: scalar.Rendered{Text: "2024-01-02T03:04:05.000000006Z", Tag: yml.TagTimestamp}},
		{name: "plain string", value: values.String("hello"), expected: scalar.Rendered{Text: "hello", Tag: yml.TagStr}},
		{name: "numeric string", value: values.String("123"), expected: scalar.Rendered{Text: "123", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "boolean string", value: values.String("true"), expected: scalar.Rendered{Text: "true", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "null string", value: values.String("null"), expected: scalar.Rendered{Text: "null", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "empty string", value: values.String(""), expected: scalar.Rendered{Text: "", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "float string", value: values.String("1.0"), expected: scalar.Rendered{Text: "1.0", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "timestamp string", value: values.String("2024-01-02T03:04:05Z"), expected: scalar.Rendered{Text: "2024-01-02T03:04:05Z", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "yaml 1.1 boolean word", value: values.String("yes"), expected: scalar.Rendered{Text: "yes", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "yaml 1.1 single letter", value: values.String("N"), expected: scalar.Rendered{Text: "N", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "lossy looking number", value: values.String("007"), expected: scalar.Rendered{Text: "007", Tag: yml.TagStr}},
		{name: "multi line", value: values.String("a\nb\n"), expected: scalar.Rendered{Text: "a\nb\n", Style: scalar.StyleLiteral, Tag: yml.TagStr}},
		{name: "carriage return", value: values.String("a\r\nb"), expected: scalar.Rendered{Text: "a\r\nb", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "leading line break", value: values.String("\n a"), expected: scalar.Rendered{Text: "\n a", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "only line breaks", value: values.String("\n\n"), expected: scalar.Rendered{Text: "\n\n", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "merge key text", value: values.String("<<"), expected: scalar.Rendered{Text: "<<", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "merge key lookalike", value: values.String("<<a"), expected: scalar.Rendered{Text: "<<a", Tag: yml.TagStr}},
	}

	e := scalar.NewEmitter(false, scalar.DefaultFormatOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			actual, err := e.Render(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestEmitter_Render_JSONCompatible_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		value    values.Value
		expected scalar.Rendered
	}{
		{name: "plain word is quoted", value: values.String("hello"), expected: scalar.Rendered{Text: "hello", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
		{name: "int", value: values.Int(7), expected: scalar.Rendered{Text: "7", Tag: yml.TagInt}},
		{name: "float", value: values.Float(2.5), expected: scalar.Rendered{Text: "2.5", Tag: yml.TagFloat}},
		{name: "timestamp is a string", value: values.Timestamp(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), expected: scalar.Rendered{Text: "2024-01-02T00:00:00Z", Style: scalar.StyleDoubleQuoted, Tag: yml.TagStr}},
	}

	e := scalar.NewEmitter(true, scalar.DefaultFormatOptions())
	require.True(t, e.JSONCompatible())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			actual, err := e.Render(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestEmitter_Render_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		jsonCompatible bool
		value          values.Value
	}{
		{name: "opaque", value: values.Opaque{Value: make(chan int)}},
		{name: "opaque in json mode", jsonCompatible: true, value: values.Opaque{Value: func() {}}},
		{name: "list", value: values.NewList()},
		{name: "nan in json mode", jsonCompatible: true, value: values.Float(math.NaN())},
		{name: "infinity in json mode", jsonCompatible: true, value: values.Float(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := scalar.NewEmitter(tt.jsonCompatible, scalar.DefaultFormatOptions()).Render(tt.value)
			require.ErrorIs(t, err, scalar.ErrUnsupportedScalarType)
		})
	}
}

func TestEmitter_Render_StringsSurviveDecode_Success(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", " ", "~", "null", "Null", "true", "False", "yes", "on", "42", "-7", "007", "1.0", "1e3", "1e+21",
		".nan", ".Inf", "-.inf", "2024-01-02T03:04:05Z", "hello", "multi\nline", "tab\tseparated", "key: value",
		"- item", "#comment", "trailing space ", " leading space", "a\r\nb",
	}

	e := scalar.NewEmitter(false, scalar.DefaultFormatOptions())
	r := scalar.NewResolver(scalar.DefaultFormatOptions(), nil)
	for _, in := range inputs {
		rendered, err := e.Render(values.String(in))
		require.NoError(t, err, in)

		out, err := yaml.Marshal(yml.CreateScalarNode(rendered.Text, rendered.Tag, rendered.Style.YAMLStyle()))
		require.NoError(t, err, in)

		var doc yaml.Node
		require.NoError(t, yaml.Unmarshal(out, &doc), in)
		node := doc.Content[0]

		tag := ""
		if yml.HasExplicitTag(node) {
			tag = node.Tag
		}
		decoded, err := r.Resolve(node.Value, tag, scalar.StyleFromNode(node), false)
		require.NoError(t, err, in)
		assert.Equal(t, values.String(in), decoded, "input %q rendered as %q", in, out)
	}
}
