// Package json renders YAML node trees as strict JSON.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/speakeasy-api/yamlcodec/sequencedmap"
	"github.com/speakeasy-api/yamlcodec/yml"
	"gopkg.in/yaml.v3"
)

// YAMLToJSON will convert the provided YAML node to JSON in a stable way not reordering keys.
// Scalars keep the type given by their tag, quoted and block scalars are always strings.
// An indentation of 0 writes the whole value on a single line.
func YAMLToJSON(node *yaml.Node, indentation int, buffer io.Writer) error {
	v, err := handleYAMLNode(node)
	if err != nil {
		return err
	}

	e := json.NewEncoder(buffer)
	e.SetEscapeHTML(false)
	if indentation > 0 {
		e.SetIndent("", strings.Repeat(" ", indentation))
	}

	return e.Encode(v)
}

func handleYAMLNode(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return handleYAMLNode(node.Content[0])
	case yaml.SequenceNode:
		return handleSequenceNode(node)
	case yaml.MappingNode:
		return handleMappingNode(node)
	case yaml.ScalarNode:
		return handleScalarNode(node)
	case yaml.AliasNode:
		return handleYAMLNode(node.Alias)
	default:
		return nil, fmt.Errorf("unknown node kind: %s", yml.NodeKindToString(node.Kind))
	}
}

func handleMappingNode(node *yaml.Node) (any, error) {
	content := yml.ResolveMergeKeys(node.Content)

	v := sequencedmap.NewWithCapacity[string, any](len(content) / 2)
	for i := 0; i+1 < len(content); i += 2 {
		keyNode := yml.ResolveAlias(content[i])
		if keyNode == nil || keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("[%d:%d] JSON object keys must be scalars", content[i].Line, content[i].Column)
		}

		vv, err := handleYAMLNode(content[i+1])
		if err != nil {
			return nil, err
		}

		v.Set(keyNode.Value, vv)
	}

	return v, nil
}

func handleSequenceNode(node *yaml.Node) (any, error) {
	v := make([]any, len(node.Content))
	for i, n := range node.Content {
		vv, err := handleYAMLNode(n)
		if err != nil {
			return nil, err
		}

		v[i] = vv
	}

	return v, nil
}

func handleScalarNode(node *yaml.Node) (any, error) {
	if node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return node.Value, nil
	}

	switch yml.ShortTag(node.Tag) {
	case yml.TagNull:
		return nil, nil
	case yml.TagBool, yml.TagInt, yml.TagFloat:
		if !json.Valid([]byte(node.Value)) {
			return nil, fmt.Errorf("[%d:%d] %s scalar %q has no JSON representation", node.Line, node.Column, yml.NodeTagToString(node.Tag), node.Value)
		}
		return json.RawMessage(node.Value), nil
	default:
		return node.Value, nil
	}
}
