// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctree

import (
	"strings"

	"go.yaml.in/yaml/v3"
)

// MarshalYAML converts the tree to a YAML node so mappings keep received
// member order.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	switch n.Kind() {
	case Bool:
		v := "false"
		if n.boolean {
			v = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
	case Number:
		tag := "!!int"
		if strings.ContainsAny(n.text, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.text}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.text}
	case List:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.items {
			seq.Content = append(seq.Content, item.yamlNode())
		}
		return seq
	case Object:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, member := range n.members {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: member.Key},
				member.Value.yamlNode(),
			)
		}
		return m
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
