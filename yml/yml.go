package yml

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Core schema short tags as reported by yaml.v3.
const (
	TagStr       = "!!str"
	TagNull      = "!!null"
	TagBool      = "!!bool"
	TagInt       = "!!int"
	TagFloat     = "!!float"
	TagTimestamp = "!!timestamp"
	TagMap       = "!!map"
	TagSeq       = "!!seq"
	TagMerge     = "!!merge"
	TagBinary    = "!!binary"
)

const longTagPrefix = "tag:yaml.org,2002:"

// ShortTag converts a long form core schema tag (tag:yaml.org,2002:int) to its short form (!!int).
// Tags outside the core schema namespace are returned unchanged.
func ShortTag(tag string) string {
	if rest, ok := strings.CutPrefix(tag, longTagPrefix); ok {
		return "!!" + rest
	}
	return tag
}

// HasExplicitTag reports whether the tag on node was written in the source rather than inferred by the parser.
func HasExplicitTag(node *yaml.Node) bool {
	return node != nil && node.Style&yaml.TaggedStyle != 0
}

// CreateScalarNode creates a scalar node with the given value, tag and style.
func CreateScalarNode(value, tag string, style yaml.Style) *yaml.Node {
	return &yaml.Node{
		Value: value,
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Style: style,
	}
}

func CreateMapNode(content []*yaml.Node, style yaml.Style) *yaml.Node {
	return &yaml.Node{
		Content: content,
		Kind:    yaml.MappingNode,
		Tag:     TagMap,
		Style:   style,
	}
}

func CreateSliceNode(elements []*yaml.Node, style yaml.Style) *yaml.Node {
	if elements == nil {
		elements = []*yaml.Node{}
	}
	return &yaml.Node{
		Content: elements,
		Kind:    yaml.SequenceNode,
		Tag:     TagSeq,
		Style:   style,
	}
}

// CreateAliasNode creates an alias node referencing the anchored target.
func CreateAliasNode(target *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.AliasNode,
		Value: target.Anchor,
		Alias: target,
	}
}

func ResolveAlias(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.AliasNode:
		return ResolveAlias(node.Alias)
	default:
		return node
	}
}

// IsMergeKey returns true if the given node is a YAML merge key (<<).
func IsMergeKey(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == TagMerge && node.Value == "<<"
}

// ResolveMergeKeys processes a mapping node's content and expands any YAML merge keys (<<).
// Explicit keys in the mapping take precedence over merged keys (per the YAML merge key spec).
// Merged mappings are recursively flattened so nested merge chains are fully expanded.
// Returns new content with merge keys expanded, or the original content if no merge keys are present.
func ResolveMergeKeys(content []*yaml.Node) []*yaml.Node {
	return resolveMergeKeys(content, nil)
}

// resolveKeyValue returns the effective key string for a node, resolving aliases.
func resolveKeyValue(node *yaml.Node) string {
	resolved := ResolveAlias(node)
	if resolved == nil {
		return node.Value
	}
	return resolved.Value
}

func resolveMergeKeys(content []*yaml.Node, seen map[*yaml.Node]bool) []*yaml.Node {
	// Trim trailing orphan key (odd-length content) so all loops can assume pairs
	if len(content)%2 == 1 {
		content = content[:len(content)-1]
	}
	if len(content) < 2 {
		return content
	}

	hasMergeKey := false
	numMergePairs := 0
	explicitKeys := make(map[string]struct{})

	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			hasMergeKey = true
			numMergePairs++
		} else {
			explicitKeys[resolveKeyValue(content[i])] = struct{}{}
		}
	}
	if !hasMergeKey {
		return content
	}

	var mergedContent []*yaml.Node
	seenMerged := make(map[string]struct{})

	for i := 0; i < len(content); i += 2 {
		if !IsMergeKey(content[i]) {
			continue
		}

		resolved := ResolveAlias(content[i+1])
		if resolved == nil {
			continue
		}

		collectMergedPairs(resolved, explicitKeys, seenMerged, &mergedContent, seen)
	}

	// merged content first, then explicit keys
	explicitLen := len(content) - 2*numMergePairs
	result := make([]*yaml.Node, 0, len(mergedContent)+explicitLen)
	result = append(result, mergedContent...)

	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			continue
		}
		result = append(result, content[i], content[i+1])
	}

	return result
}

// collectMergedPairs collects key-value pairs from a merge target (mapping or sequence of mappings),
// recursively resolving any nested merge keys within the target.
func collectMergedPairs(node *yaml.Node, explicitKeys, seenMerged map[string]struct{}, out *[]*yaml.Node, seen map[*yaml.Node]bool) {
	switch node.Kind {
	case yaml.MappingNode:
		// Cycle guard: prevent infinite loops from circular aliases
		if seen == nil {
			seen = make(map[*yaml.Node]bool)
		}
		if seen[node] {
			return
		}
		seen[node] = true

		flatContent := resolveMergeKeys(node.Content, seen)

		for j := 0; j < len(flatContent); j += 2 {
			key := resolveKeyValue(flatContent[j])
			if _, isExplicit := explicitKeys[key]; !isExplicit {
				if _, alreadyMerged := seenMerged[key]; !alreadyMerged {
					*out = append(*out, flatContent[j], flatContent[j+1])
					seenMerged[key] = struct{}{}
				}
			}
		}
	case yaml.SequenceNode:
		// Sequence of mappings merge: <<: [*alias1, *alias2]
		for _, item := range node.Content {
			resolvedItem := ResolveAlias(item)
			if resolvedItem == nil || resolvedItem.Kind != yaml.MappingNode {
				continue
			}
			collectMergedPairs(resolvedItem, explicitKeys, seenMerged, out, seen)
		}
	}
}

func NodeTagToString(tag string) string {
	switch ShortTag(tag) {
	case TagStr:
		return "string"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagBool:
		return "bool"
	case TagTimestamp:
		return "timestamp"
	case TagMap:
		return "object"
	case TagSeq:
		return "sequence"
	case TagNull:
		return "null"
	default:
		return tag
	}
}
