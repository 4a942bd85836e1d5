package testutils

import (
	"strconv"
	"testing"

	"github.com/speakeasy-api/yamlcodec/yml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// CreateScalarYamlNode creates a scalar node as the parser would report it at line and column.
func CreateScalarYamlNode(value, tag string, style yaml.Style, line, column int) *yaml.Node {
	return &yaml.Node{
		Value:  value,
		Kind:   yaml.ScalarNode,
		Tag:    tag,
		Style:  style,
		Line:   line,
		Column: column,
	}
}

func CreateStringYamlNode(value string, line, column int) *yaml.Node {
	return CreateScalarYamlNode(value, yml.TagStr, 0, line, column)
}

func CreateIntYamlNode(value int, line, column int) *yaml.Node {
	return CreateScalarYamlNode(strconv.Itoa(value), yml.TagInt, 0, line, column)
}

func CreateBoolYamlNode(value bool, line, column int) *yaml.Node {
	return CreateScalarYamlNode(strconv.FormatBool(value), yml.TagBool, 0, line, column)
}

func CreateMapYamlNode(contents []*yaml.Node, line, column int) *yaml.Node {
	return &yaml.Node{
		Content: contents,
		Kind:    yaml.MappingNode,
		Tag:     yml.TagMap,
		Line:    line,
		Column:  column,
	}
}

func CreateSeqYamlNode(contents []*yaml.Node, line, column int) *yaml.Node {
	return &yaml.Node{
		Content: contents,
		Kind:    yaml.SequenceNode,
		Tag:     yml.TagSeq,
		Line:    line,
		Column:  column,
	}
}

// ParseYamlNode parses src as a single document and returns its root content node.
func ParseYamlNode(t *testing.T, src string) *yaml.Node {
	t.Helper()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc), "should parse test document")
	require.Len(t, doc.Content, 1, "test document should not be empty")

	return doc.Content[0]
}
