package codec_test

import (
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/speakeasy-api/yamlcodec/codec"
	"github.com/speakeasy-api/yamlcodec/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewDecodeContext_Success(t *testing.T) {
	t.Parallel()

	defaults := codec.NewDecodeContext()
	assert.Equal(t, codec.ShapeRecord, defaults.OutputShape)
	assert.False(t, defaults.ScalarsAsStrings)
	assert.Equal(t, codec.DefaultMaxExpandedNodes, defaults.MaxExpandedNodes)
	assert.NotNil(t, defaults.Logger)

	logger := log.NewNopLogger()
	format := scalar.FormatOptions{Locale: language.Turkish}
	custom := codec.NewDecodeContext(
		codec.WithOutputShape(codec.ShapeUnorderedMap),
		codec.WithScalarsAsStrings(true),
		codec.WithDecodeFormat(format),
		codec.WithLogger(logger),
		codec.WithMaxExpandedNodes(5),
	)
	assert.Equal(t, codec.ShapeUnorderedMap, custom.OutputShape)
	assert.True(t, custom.ScalarsAsStrings)
	assert.Equal(t, format, custom.Format)
	assert.Equal(t, 5, custom.MaxExpandedNodes)
}

func TestNewEncodeContext_Success(t *testing.T) {
	t.Parallel()

	defaults := codec.NewEncodeContext()
	assert.True(t, defaults.DisableAliases)
	assert.False(t, defaults.JSONCompatible)
	assert.Equal(t, 1024, defaults.MaxRecursionDepth)
	assert.Equal(t, 2, defaults.Indent)

	custom := codec.NewEncodeContext(
		codec.WithAliases(true),
		codec.WithJSONCompatible(true),
		codec.WithMaxRecursionDepth(10),
		codec.WithIndent(4),
	)
	assert.False(t, custom.DisableAliases)
	assert.True(t, custom.JSONCompatible)
	assert.Equal(t, 10, custom.MaxRecursionDepth)
	assert.Equal(t, 4, custom.Indent)
}

func TestEncodeContext_ZeroValue_Success(t *testing.T) {
	t.Parallel()

	text, err := codec.Encode(record("a", record("b", 1)), codec.EncodeContext{})
	require.NoError(t, err)
	assert.Equal(t, "a:\n  b: 1\n", text)
}

func TestOutputShape_Success(t *testing.T) {
	t.Parallel()

	for _, shape := range []codec.OutputShape{codec.ShapeRecord, codec.ShapeOrderedMap, codec.ShapeUnorderedMap} {
		parsed, err := codec.ParseOutputShape(shape.String())
		require.NoError(t, err)
		assert.Equal(t, shape, parsed)
	}

	parsed, err := codec.ParseOutputShape("Ordered")
	require.NoError(t, err)
	assert.Equal(t, codec.ShapeOrderedMap, parsed)

	_, err = codec.ParseOutputShape("tree")
	require.Error(t, err)
	assert.Equal(t, "OutputShape(9)", codec.OutputShape(9).String())
}

func TestNodeError_Success(t *testing.T) {
	t.Parallel()

	err := &codec.NodeError{Line: 3, Column: 7, Err: codec.ErrDuplicateKey.Wrapf("%q", "a")}

	assert.Equal(t, `[3:7] duplicate mapping key -- "a"`, err.Error())
	require.ErrorIs(t, err, codec.ErrDuplicateKey)
	assert.False(t, errors.Is(err, codec.ErrInvalidKey))
}
