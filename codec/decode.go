package codec

import (
	"bytes"
	"context"
	"io"

	"github.com/speakeasy-api/yamlcodec/errors"
	"github.com/speakeasy-api/yamlcodec/scalar"
	"github.com/speakeasy-api/yamlcodec/values"
	"github.com/speakeasy-api/yamlcodec/yml"
	"gopkg.in/yaml.v3"
)

// Result holds the outcome of one item of a batch.
type Result[T any] struct {
	Value T
	Err   error
}

// ParseDocuments parses every document in data. Malformed input returns ErrParse and no documents.
func ParseDocuments(data []byte) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*yaml.Node
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, ErrParse.Wrap(err)
		}
		docs = append(docs, &doc)
	}

	return docs, nil
}

// DecodeDocument decodes a YAML stream. An empty stream decodes to nil, a single document to its value,
// and several documents to a []any holding one value per document in order.
func DecodeDocument(data []byte, ctx DecodeContext) (any, error) {
	docs, err := ParseDocuments(data)
	if err != nil {
		return nil, err
	}

	switch len(docs) {
	case 0:
		return nil, nil
	case 1:
		return Decode(docs[0], ctx)
	default:
		return decodeDocuments(docs, ctx)
	}
}

// DecodeAll decodes a YAML stream into one value per document, whatever the document count.
func DecodeAll(data []byte, ctx DecodeContext) ([]any, error) {
	docs, err := ParseDocuments(data)
	if err != nil {
		return nil, err
	}
	return decodeDocuments(docs, ctx)
}

func decodeDocuments(docs []*yaml.Node, ctx DecodeContext) ([]any, error) {
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		v, err := Decode(doc, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeBatch decodes each item independently with DecodeDocument. A failing item does not affect the others.
func DecodeBatch(items [][]byte, ctx DecodeContext) []Result[any] {
	results := make([]Result[any], len(items))
	for i, item := range items {
		results[i].Value, results[i].Err = DecodeDocument(item, ctx)
	}
	return results
}

// Decode converts a parsed node into host values.
//
// Scalars become nil, bool, int64, float64, string or time.Time, sequences become []any and mappings
// become the container selected by ctx.OutputShape. Aliases are followed and merge keys expanded.
func Decode(node *yaml.Node, ctx DecodeContext) (any, error) {
	if node == nil {
		return nil, nil
	}

	if ctx.MaxExpandedNodes > 0 {
		if _, exceeded := yml.CountExpanded(context.Background(), node, ctx.MaxExpandedNodes); exceeded {
			return nil, newNodeError(node, ErrExpansionLimitExceeded.Wrapf("document expands to more than %d nodes", ctx.MaxExpandedNodes))
		}
	}

	d := &decoder{
		ctx:      ctx,
		resolver: scalar.NewResolver(ctx.Format, ctx.Logger),
		active:   make(map[*yaml.Node]struct{}),
	}
	return d.decode(node)
}

type decoder struct {
	ctx      DecodeContext
	resolver scalar.Resolver
	// active holds the containers currently being decoded so self referencing aliases are caught.
	active map[*yaml.Node]struct{}
}

func (d *decoder) decode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, newNodeError(node, ErrParse.Wrapf("unknown anchor %q", node.Value))
		}
		if _, ok := d.active[node.Alias]; ok {
			return nil, newNodeError(node, ErrParse.Wrapf("anchor %q value contains itself", node.Value))
		}
		return d.decode(node.Alias)
	case yaml.ScalarNode:
		return d.decodeScalar(node)
	case yaml.SequenceNode:
		return d.decodeSequence(node)
	case yaml.MappingNode:
		return d.decodeMapping(node)
	default:
		return nil, newNodeError(node, ErrParse.Wrapf("unexpected %s node", yml.NodeKindToString(node.Kind)))
	}
}

func (d *decoder) resolveScalar(node *yaml.Node) (values.Value, error) {
	tag := ""
	if yml.HasExplicitTag(node) {
		tag = node.Tag
	}

	v, err := d.resolver.Resolve(node.Value, tag, scalar.StyleFromNode(node), d.ctx.ScalarsAsStrings)
	if err != nil {
		return nil, newNodeError(node, err)
	}
	return v, nil
}

func (d *decoder) decodeScalar(node *yaml.Node) (any, error) {
	v, err := d.resolveScalar(node)
	if err != nil {
		return nil, err
	}
	return values.Native(v), nil
}

func (d *decoder) decodeSequence(node *yaml.Node) (any, error) {
	d.active[node] = struct{}{}
	defer delete(d.active, node)

	out := make([]any, 0, len(node.Content))
	for _, item := range node.Content {
		v, err := d.decode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func (d *decoder) decodeMapping(node *yaml.Node) (any, error) {
	d.active[node] = struct{}{}
	defer delete(d.active, node)

	content := yml.ResolveMergeKeys(node.Content)
	builder := NewContainerBuilder(d.ctx.OutputShape, len(content)/2)

	for i := 0; i+1 < len(content); i += 2 {
		keyNode, valueNode := content[i], content[i+1]

		key, err := d.decodeKey(keyNode)
		if err != nil {
			return nil, err
		}

		value, err := d.decode(valueNode)
		if err != nil {
			return nil, err
		}

		if err := builder.Set(key, value); err != nil {
			return nil, newNodeError(keyNode, err)
		}
	}

	return builder.Build(), nil
}

// decodeKey returns the raw key text for record shapes and the decoded scalar otherwise.
func (d *decoder) decodeKey(node *yaml.Node) (any, error) {
	resolved := yml.ResolveAlias(node)
	if resolved == nil || resolved.Kind != yaml.ScalarNode {
		kind := "missing"
		if resolved != nil {
			kind = yml.NodeKindToString(resolved.Kind)
		}
		return nil, newNodeError(node, ErrInvalidKey.Wrapf("%s keys are not supported", kind))
	}

	if d.ctx.OutputShape.usesRawKeys() {
		return resolved.Value, nil
	}

	return d.decodeScalar(resolved)
}
