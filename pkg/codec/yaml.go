//go:build !mocker_noyaml

package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/welschmorgan/mocker/pkg/value"
)

func init() {
	Register(yamlCodec{})
}

// yamlCodec decodes and encodes YAML through yaml.Node trees instead of
// interface maps. Working at the node level keeps numeric scalars as their
// literal text, so 1.10 does not become 1.1 on a round-trip.
type yamlCodec struct{}

func (yamlCodec) Name() string         { return "yaml" }
func (yamlCodec) Extensions() []string { return []string{"yaml", "yml"} }
func (yamlCodec) ContentType() string  { return "application/yaml" }

func (yamlCodec) Encode(v value.Value) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, &Error{Format: "yaml", Op: "encode", Err: err}
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, &Error{Format: "yaml", Op: "encode", Err: err}
	}
	return data, nil
}

func (yamlCodec) Decode(data []byte) (value.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return value.Null(), &Error{Format: "yaml", Op: "decode", Err: err}
	}
	if root.Kind == 0 {
		// Empty document.
		return value.Null(), nil
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return value.Null(), nil
		}
		doc = doc.Content[0]
	}
	v, err := fromYAMLNode(doc)
	if err != nil {
		return value.Null(), &Error{Format: "yaml", Op: "decode", Err: err}
	}
	return v, nil
}

// fromYAMLNode converts a resolved yaml.Node into a Value.
func fromYAMLNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	case yaml.SequenceNode:
		elems := make([]value.Value, len(n.Content))
		for i, child := range n.Content {
			v, err := fromYAMLNode(child)
			if err != nil {
				return value.Null(), err
			}
			elems[i] = v
		}
		return value.Sequence(elems...), nil
	case yaml.MappingNode:
		entries := make(map[string]value.Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return value.Null(), fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			if _, dup := entries[key.Value]; dup {
				return value.Null(), fmt.Errorf("line %d: duplicate mapping key %q", key.Line, key.Value)
			}
			v, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return value.Null(), err
			}
			entries[key.Value] = v
		}
		return value.Mapping(entries), nil
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	default:
		return value.Null(), fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func fromYAMLScalar(n *yaml.Node) (value.Value, error) {
	switch n.Tag {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Null(), err
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		// Keep the literal text so the decimal representation survives.
		return value.Number(json.Number(n.Value)), nil
	case "!!str", "":
		return value.String(n.Value), nil
	default:
		return value.Null(), fmt.Errorf("line %d: unsupported scalar tag %s", n.Line, n.Tag)
	}
}

// yamlNode converts a Value into a yaml.Node for marshaling.
func yamlNode(v value.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case value.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", b)}, nil
	case value.KindNumber:
		n, _ := v.AsNumber()
		tag := "!!int"
		if strings.ContainsAny(n.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.String()}, nil
	case value.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case value.KindSequence:
		elems, _ := v.AsSequence()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range elems {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case value.KindMapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			childNode, err := yamlNode(child)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				childNode,
			)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}
