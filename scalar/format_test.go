package scalar_test

import (
	"math"
	"testing"
	"time"

	"github.com/speakeasy-api/yamlcodec/scalar"
	"github.com/speakeasy-api/yamlcodec/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatFloat_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "zero", value: 0, expected: "0.0"},
		{name: "negative zero", value: math.Copysign(0, -1), expected: "-0.0"},
		{name: "whole", value: 123456789, expected: "123456789.0"},
		{name: "fraction", value: 0.1, expected: "0.1"},
		{name: "small fixed", value: 0.0001, expected: "0.0001"},
		{name: "small exponent", value: 0.00001, expected: "1e-05"},
		{name: "large fixed", value: 1e20, expected: "100000000000000000000.0"},
		{name: "large exponent", value: 1e21, expected: "1e+21"},
		{name: "shortest round trip", value: 0.1 + 0.2, expected: "0.30000000000000004"},
		{name: "max", value: math.MaxFloat64, expected: "1.7976931348623157e+308"},
		{name: "nan", value: math.NaN(), expected: ".nan"},
		{name: "infinity", value: math.Inf(1), expected: ".inf"},
		{name: "negative infinity", value: math.Inf(-1), expected: "-.inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, scalar.FormatFloat(tt.value))
		})
	}
}

func TestFormat_Success(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 2, 29, 23, 59, 59, 0, time.FixedZone("", 2*60*60))
	tests := []struct {
		name     string
		value    values.Value
		expected string
	}{
		{name: "nil", value: nil, expected: "null"},
		{name: "null", value: values.Null{}, expected: "null"},
		{name: "bool", value: values.Bool(true), expected: "true"},
		{name: "int", value: values.Int(math.MinInt64), expected: "-9223372036854775808"},
		{name: "string", value: values.String("raw text"), expected: "raw text"},
		{name: "timestamp keeps offset", value: values.Timestamp(ts), expected: "2024-02-29T23:59:59+02:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			actual, err := scalar.Format(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}

	_, err := scalar.Format(values.NewMap(0))
	require.ErrorIs(t, err, scalar.ErrUnsupportedScalarType)
}

func TestStyle_Success(t *testing.T) {
	t.Parallel()

	src := "- plain\n- 'single'\n- \"double\"\n- !!str tagged\n- |\n  literal\n- >\n  folded\n"
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	seq := doc.Content[0]
	require.Len(t, seq.Content, 6)

	assert.Equal(t, scalar.StylePlain, scalar.StyleFromNode(seq.Content[0]))
	assert.Equal(t, scalar.StyleSingleQuoted, scalar.StyleFromNode(seq.Content[1]))
	assert.Equal(t, scalar.StyleDoubleQuoted, scalar.StyleFromNode(seq.Content[2]))
	assert.Equal(t, scalar.StylePlain, scalar.StyleFromNode(seq.Content[3]))
	assert.Equal(t, scalar.StyleLiteral, scalar.StyleFromNode(seq.Content[4]))
	assert.Equal(t, scalar.StyleFolded, scalar.StyleFromNode(seq.Content[5]))
	assert.Equal(t, scalar.StylePlain, scalar.StyleFromNode(nil))

	assert.True(t, scalar.StyleLiteral.SuppressesInference())
	assert.False(t, scalar.StylePlain.SuppressesInference())
	assert.Equal(t, yaml.FoldedStyle, scalar.StyleFolded.YAMLStyle())
	assert.Equal(t, "double-quoted", scalar.StyleDoubleQuoted.String())
}
