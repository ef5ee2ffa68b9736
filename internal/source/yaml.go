package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dynstruct"
)

// ParseYAML decodes a YAML document whose top level is a mapping.
// Key order follows the document. An empty document yields no fields.
func ParseYAML(data []byte) (dynstruct.Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to parse YAML", Err: err}
	}
	return FromNode(&doc)
}

// FromNode converts an already-decoded YAML node into fields. It accepts a
// document or a mapping node; a zero node (absent from its parent) yields
// no fields.
func FromNode(node *yaml.Node) (dynstruct.Fields, error) {
	if node.Kind == 0 {
		return dynstruct.Fields{}, nil
	}
	root := node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return dynstruct.Fields{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{
			Code:    ErrCodeNotMapping,
			Message: fmt.Sprintf("top level must be a mapping, got %s", yamlKind(root)),
		}
	}
	return yamlMapping(root)
}

func yamlMapping(node *yaml.Node) (dynstruct.Fields, error) {
	fields := make(dynstruct.Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var value any
		if err := valNode.Decode(&value); err != nil {
			return nil, &LoadError{
				Code:    ErrCodeParseFailed,
				Message: fmt.Sprintf("line %d: failed to decode value for %q", valNode.Line, keyNode.Value),
				Err:     err,
			}
		}
		fields = append(fields, dynstruct.F(keyNode.Value, value))
	}
	return fields, nil
}

// ParseScalar decodes s as a single YAML scalar: "3" is an int, "true" a
// bool, "x" a string. Anything that fails to parse is kept as text.
func ParseScalar(s string) any {
	var value any
	if err := yaml.Unmarshal([]byte(s), &value); err != nil {
		return s
	}
	return value
}

func yamlKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}
