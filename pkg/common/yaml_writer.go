package common

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// toYAMLNode builds a yaml.v3 document node; going through the node API
// keeps the key order of the tree.
func toYAMLNode(v Value, options *PrintOptions) *yaml.Node {
	switch x := v.(type) {
	case nil, Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		value := "false"
		if x {
			value = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}
	case Number:
		switch x {
		case "Infinity":
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
		case "-Infinity":
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
		case "NaN":
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".nan"}
		}
		tag := "!!int"
		if strings.ContainsAny(string(x), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(x)}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: TrimValue(string(x), options.TrimTokenOnOutput)}
	case Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			node.Content = append(node.Content, toYAMLNode(e, options))
		}
		return node
	case *Mapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range x.Fields {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
				toYAMLNode(f.Value, options),
			)
		}
		return node
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func PrintASTYAML(root Value, indentDelta string, output io.Writer, options *PrintOptions) error {
	encoder := yaml.NewEncoder(output)
	indent := len(indentDelta)
	if indent == 0 {
		indent = 2
	}
	encoder.SetIndent(indent)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{toYAMLNode(root, options)}}
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
