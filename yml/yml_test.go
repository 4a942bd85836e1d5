package yml_test

import (
	"testing"

	"github.com/speakeasy-api/yamlcodec/yml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseRoot(t *testing.T, src string) *yaml.Node {
	t.Helper()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	require.Equal(t, yaml.DocumentNode, doc.Kind)
	require.Len(t, doc.Content, 1)

	return doc.Content[0]
}

func TestShortTag_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		tag      string
		expected string
	}{
		{name: "long core tag", tag: "tag:yaml.org,2002:int", expected: "!!int"},
		{name: "short core tag", tag: "!!float", expected: "!!float"},
		{name: "local tag", tag: "!custom", expected: "!custom"},
		{name: "empty", tag: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, yml.ShortTag(tt.tag))
		})
	}
}

func TestHasExplicitTag_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		expected bool
	}{
		{name: "plain scalar", src: "42", expected: false},
		{name: "quoted scalar", src: `"42"`, expected: false},
		{name: "short explicit tag", src: "!!str 42", expected: true},
		{name: "verbatim explicit tag", src: "!<tag:yaml.org,2002:int> 42", expected: true},
		{name: "local tag", src: "!thing 42", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, yml.HasExplicitTag(parseRoot(t, tt.src)))
		})
	}

	assert.False(t, yml.HasExplicitTag(nil))
}

func TestCreateScalarNode_Success(t *testing.T) {
	t.Parallel()

	node := yml.CreateScalarNode("123", yml.TagStr, yaml.DoubleQuotedStyle)

	assert.Equal(t, yaml.ScalarNode, node.Kind)
	assert.Equal(t, "123", node.Value)
	assert.Equal(t, yml.TagStr, node.Tag)
	assert.Equal(t, yaml.DoubleQuotedStyle, node.Style)

	out, err := yaml.Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, "\"123\"\n", string(out))
}

func TestCreateSliceNode_Empty_Success(t *testing.T) {
	t.Parallel()

	node := yml.CreateSliceNode(nil, yaml.FlowStyle)

	require.NotNil(t, node.Content)
	out, err := yaml.Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestCreateAliasNode_Success(t *testing.T) {
	t.Parallel()

	target := yml.CreateMapNode([]*yaml.Node{yml.CreateScalarNode("a", yml.TagStr, 0), yml.CreateScalarNode("b", yml.TagStr, 0)}, 0)
	target.Anchor = "id001"
	alias := yml.CreateAliasNode(target)

	assert.Equal(t, yaml.AliasNode, alias.Kind)
	assert.Equal(t, "id001", alias.Value)
	assert.Same(t, target, yml.ResolveAlias(alias))
}

func TestResolveAlias_Success(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, "base: &b {x: 1}\nref: *b\n")
	ref := root.Content[3]

	require.Equal(t, yaml.AliasNode, ref.Kind)
	resolved := yml.ResolveAlias(ref)
	assert.Equal(t, yaml.MappingNode, resolved.Kind)
	assert.Same(t, root.Content[1], resolved)
	assert.Nil(t, yml.ResolveAlias(nil))
}

func TestResolveMergeKeys_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		src          string
		expectedKeys []string
		expectedVals []string
	}{
		{
			name:         "no merge keys",
			src:          "a: 1\nb: 2\n",
			expectedKeys: []string{"a", "b"},
			expectedVals: []string{"1", "2"},
		},
		{
			name:         "single merge with explicit override",
			src:          "base: &b {x: 1, y: 2}\nm:\n  <<: *b\n  y: 3\n",
			expectedKeys: []string{"x", "y"},
			expectedVals: []string{"1", "3"},
		},
		{
			name:         "sequence of merges keeps first definition",
			src:          "a: &a {x: 1}\nb: &b {x: 2, z: 3}\nm:\n  <<: [*a, *b]\n",
			expectedKeys: []string{"x", "z"},
			expectedVals: []string{"1", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := parseRoot(t, tt.src)
			target := root
			if len(root.Content) >= 2 && root.Content[len(root.Content)-2].Value == "m" {
				target = root.Content[len(root.Content)-1]
			}

			content := yml.ResolveMergeKeys(target.Content)

			var keys, vals []string
			for i := 0; i < len(content); i += 2 {
				keys = append(keys, yml.ResolveAlias(content[i]).Value)
				vals = append(vals, yml.ResolveAlias(content[i+1]).Value)
			}
			assert.Equal(t, tt.expectedKeys, keys)
			assert.Equal(t, tt.expectedVals, vals)
		})
	}
}

func TestIsMergeKey_Success(t *testing.T) {
	t.Parallel()

	root := parseRoot(t, "<<: {a: 1}\n'<<': 2\n")

	assert.True(t, yml.IsMergeKey(root.Content[0]))
	assert.False(t, yml.IsMergeKey(root.Content[2]))
	assert.False(t, yml.IsMergeKey(nil))
}

func TestNodeTagToString_Success(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "int", yml.NodeTagToString("!!int"))
	assert.Equal(t, "timestamp", yml.NodeTagToString("tag:yaml.org,2002:timestamp"))
	assert.Equal(t, "object", yml.NodeTagToString(yml.TagMap))
	assert.Equal(t, "!custom", yml.NodeTagToString("!custom"))
}

func TestNodeKindToString_Success(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "document", yml.NodeKindToString(yaml.DocumentNode))
	assert.Equal(t, "sequence", yml.NodeKindToString(yaml.SequenceNode))
	assert.Equal(t, "mapping", yml.NodeKindToString(yaml.MappingNode))
	assert.Equal(t, "scalar", yml.NodeKindToString(yaml.ScalarNode))
	assert.Equal(t, "alias", yml.NodeKindToString(yaml.AliasNode))
	assert.Equal(t, "unknown", yml.NodeKindToString(yaml.Kind(99)))
}
