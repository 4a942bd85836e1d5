package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/speakeasy-api/yamlcodec/json"
	"github.com/speakeasy-api/yamlcodec/scalar"
	"github.com/speakeasy-api/yamlcodec/values"
	"github.com/speakeasy-api/yamlcodec/yml"
	"gopkg.in/yaml.v3"
)

// Encode renders v as a YAML document, or a single line JSON document when ctx.JSONCompatible is set.
func Encode(v any, ctx EncodeContext) (string, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, v, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EncodeTo writes the rendering of v to w. Nothing is written if v cannot be encoded.
func EncodeTo(w io.Writer, v any, ctx EncodeContext) error {
	canonical, err := ToCanonical(v, ctx)
	if err != nil {
		return err
	}

	node, err := BuildNode(canonical, ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if ctx.JSONCompatible {
		if err := json.YAMLToJSON(node, 0, &buf); err != nil {
			return err
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(ctx.indent())
		if err := enc.Encode(node); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}

	_, err = buf.WriteTo(w)
	return err
}

// EncodeBatch encodes each value independently. A failing value does not affect the others.
func EncodeBatch(vs []any, ctx EncodeContext) []Result[string] {
	results := make([]Result[string], len(vs))
	for i, v := range vs {
		results[i].Value, results[i].Err = Encode(v, ctx)
	}
	return results
}

// BuildNode renders a canonical value tree into a yaml.Node tree, choosing the text, style and tag of every
// scalar with a scalar.Emitter. Containers referenced more than once are anchored and aliased unless
// ctx.DisableAliases is set.
func BuildNode(v values.Value, ctx EncodeContext) (*yaml.Node, error) {
	b := &nodeBuilder{
		scalars: scalar.NewEmitter(ctx.JSONCompatible, ctx.Format),
		flow:    ctx.JSONCompatible,
	}
	if !ctx.DisableAliases && !ctx.JSONCompatible {
		b.refs = make(map[values.Value]int)
		b.anchors = make(map[values.Value]*yaml.Node)
		b.countRefs(v)
	}
	return b.build(v)
}

type nodeBuilder struct {
	scalars *scalar.Emitter
	flow    bool
	refs    map[values.Value]int
	anchors map[values.Value]*yaml.Node
}

// countRefs counts how many times each container is referenced, descending into each container once.
func (b *nodeBuilder) countRefs(v values.Value) {
	switch v := v.(type) {
	case *values.List:
		b.refs[v]++
		if b.refs[v] > 1 {
			return
		}
		for _, item := range v.Items {
			b.countRefs(item)
		}
	case *values.Map:
		b.refs[v]++
		if b.refs[v] > 1 {
			return
		}
		for _, item := range v.Entries.All() {
			b.countRefs(item)
		}
	}
}

func (b *nodeBuilder) containerStyle() yaml.Style {
	if b.flow {
		return yaml.FlowStyle
	}
	return 0
}

// shared returns the alias for an already emitted container, or registers an anchor on node if v is referenced again later.
func (b *nodeBuilder) shared(v values.Value) *yaml.Node {
	if b.refs == nil || b.refs[v] < 2 {
		return nil
	}
	if anchored, ok := b.anchors[v]; ok {
		return yml.CreateAliasNode(anchored)
	}
	return nil
}

func (b *nodeBuilder) anchor(v values.Value, node *yaml.Node) {
	if b.refs == nil || b.refs[v] < 2 {
		return
	}
	node.Anchor = fmt.Sprintf("id%03d", len(b.anchors)+1)
	b.anchors[v] = node
}

func (b *nodeBuilder) build(v values.Value) (*yaml.Node, error) {
	switch v := v.(type) {
	case *values.List:
		if v == nil {
			return b.buildScalar(values.Null{})
		}
		if alias := b.shared(v); alias != nil {
			return alias, nil
		}
		node := yml.CreateSliceNode(make([]*yaml.Node, 0, len(v.Items)), b.containerStyle())
		b.anchor(v, node)
		for _, item := range v.Items {
			child, err := b.build(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *values.Map:
		if v == nil {
			return b.buildScalar(values.Null{})
		}
		if alias := b.shared(v); alias != nil {
			return alias, nil
		}
		node := yml.CreateMapNode(make([]*yaml.Node, 0, 2*v.Len()), b.containerStyle())
		b.anchor(v, node)
		for key, item := range v.Entries.All() {
			keyNode, err := b.buildScalar(values.String(key))
			if err != nil {
				return nil, err
			}
			valueNode, err := b.build(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			node.Content = append(node.Content, keyNode, valueNode)
		}
		return node, nil
	default:
		return b.buildScalar(v)
	}
}

func (b *nodeBuilder) buildScalar(v values.Value) (*yaml.Node, error) {
	rendered, err := b.scalars.Render(v)
	if err != nil {
		return nil, err
	}
	return yml.CreateScalarNode(rendered.Text, rendered.Tag, rendered.Style.YAMLStyle()), nil
}
