package common

import (
	"fmt"
	"io"

	asciitree "github.com/thediveo/go-asciitree"
)

type AsciiNode struct {
	Label    string      `asciitree:"label"`
	Props    []string    `asciitree:"properties"`
	Children []AsciiNode `asciitree:"children"`
}

func primitiveText(v Value, options *PrintOptions) string {
	switch x := v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Number:
		return string(x)
	case String:
		return quoteJSONString(TrimValue(string(x), options.TrimTokenOnOutput))
	}
	return ""
}

// convertToTree turns a tree value into labelled asciitree nodes. Primitive
// fields become properties, nested nodes and sequences become children.
func convertToTree(prefix string, v Value, options *PrintOptions) AsciiNode {
	switch x := v.(type) {
	case *Mapping:
		label := x.Type()
		if label == "" {
			label = "{}"
		}
		var props []string
		var children []AsciiNode
		for _, f := range x.Fields {
			if f.Key == "type" {
				continue
			}
			switch KindOf(f.Value) {
			case KindMapping:
				children = append(children, convertToTree(f.Key+": ", f.Value, options))
			case KindSequence:
				seq := f.Value.(Sequence)
				if len(seq) == 0 {
					props = append(props, fmt.Sprintf("%s: []", f.Key))
					continue
				}
				children = append(children, convertToTree(f.Key+": ", seq, options))
			default:
				props = append(props, fmt.Sprintf("%s: %s", f.Key, primitiveText(f.Value, options)))
			}
		}
		return AsciiNode{Label: prefix + label, Props: props, Children: children}
	case Sequence:
		var children []AsciiNode
		for i, e := range x {
			children = append(children, convertToTree(fmt.Sprintf("[%d] ", i), e, options))
		}
		return AsciiNode{Label: fmt.Sprintf("%s[%d]", prefix, len(x)), Children: children}
	default:
		return AsciiNode{Label: prefix + primitiveText(v, options)}
	}
}

func PrintASTAsciiTree(root Value, indentDelta string, output io.Writer, options *PrintOptions) error {
	_, err := fmt.Fprintln(output, asciitree.RenderFancy(convertToTree("", root, options)))
	return err
}
