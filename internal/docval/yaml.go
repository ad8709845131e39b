package docval

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAMLNode converts a parsed YAML node into a Value.
//
// Mapping nodes become Documents with field order preserved - yaml.Node keeps
// key order, unlike decoding into a Go map. Scalars are resolved by tag:
// !!str, !!int, !!float, !!bool, !!null. Anchors/aliases are followed.
//
// Any other node kind or scalar tag (timestamps, binary) is an error: test
// documents are restricted to the closed value model.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return nil, fmt.Errorf("nil YAML node")
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("YAML document must contain exactly one value, got %d", len(n.Content))
		}
		return FromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)

	case yaml.MappingNode:
		doc := NewDocument()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
				return nil, fmt.Errorf("line %d: document keys must be strings", keyNode.Line)
			}
			if _, exists := doc.Lookup(keyNode.Value); exists {
				return nil, fmt.Errorf("line %d: duplicate field %q", keyNode.Line, keyNode.Value)
			}
			val, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", keyNode.Value, err)
			}
			doc.Append(keyNode.Value, val)
		}
		return doc, nil

	case yaml.SequenceNode:
		arr := make(Array, len(n.Content))
		for i, item := range n.Content {
			val, err := FromYAMLNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = val
		}
		return arr, nil

	case yaml.ScalarNode:
		return scalarFromYAML(n)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind", n.Line)
	}
}

// scalarFromYAML resolves a scalar node by its YAML tag.
func scalarFromYAML(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!str":
		return String(n.Value), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid integer %q: %w", n.Line, n.Value, err)
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid float %q: %w", n.Line, n.Value, err)
		}
		return Float(f), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid bool %q: %w", n.Line, n.Value, err)
		}
		return Bool(b), nil
	case "!!null":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML scalar tag %s", n.Line, n.Tag)
	}
}

// ParseYAML parses a single YAML document into a Value.
func ParseYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return FromYAMLNode(&node)
}
