package parser

import (
	"sort"

	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/tokenizer"
)

var nonChildKeys = map[string]bool{
	"loc":              true,
	"extra":            true,
	"comments":         true,
	"leadingComments":  true,
	"trailingComments": true,
	"innerComments":    true,
}

// children lists the nodes directly below node, ordered by start offset.
func children(node *common.Mapping) []*common.Mapping {
	var nodes []*common.Mapping
	add := func(v common.Value) {
		if m, ok := v.(*common.Mapping); ok && m.Has("type") && m.Has("start") {
			nodes = append(nodes, m)
		}
	}
	for _, f := range node.Fields {
		if nonChildKeys[f.Key] {
			continue
		}
		if seq, ok := f.Value.(common.Sequence); ok {
			for _, e := range seq {
				add(e)
			}
		} else {
			add(f.Value)
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Num("start") < nodes[j].Num("start")
	})
	return nodes
}

func endLine(node *common.Mapping) int {
	if loc := node.Node("loc"); loc != nil {
		if end := loc.Node("end"); end != nil {
			return int(end.Num("line"))
		}
	}
	return 0
}

func appendComment(node *common.Mapping, key string, c *tokenizer.Comment) {
	var list common.Sequence
	if v, ok := node.Get(key); ok {
		list, _ = v.(common.Sequence)
	}
	node.Set(key, append(list, commentNode(c)))
}

// attachComments gives each comment a single home: the trailing comments of
// a node ending on the comment's line, else the leading comments of the next
// node, else the trailing comments of the previous node, else the inner
// comments of the enclosing node.
func attachComments(root *common.Mapping, comments []*tokenizer.Comment) {
	for _, c := range comments {
		attachComment(root, c)
	}
}

func attachComment(node *common.Mapping, c *tokenizer.Comment) {
	start := float64(c.Span.Start.Offset)
	end := float64(c.Span.End.Offset)
	kids := children(node)
	var before, after *common.Mapping
	for _, kid := range kids {
		if kid.Num("start") <= start && end <= kid.Num("end") {
			attachComment(kid, c)
			return
		}
		if kid.Num("end") <= start {
			before = kid
		} else if after == nil && kid.Num("start") >= end {
			after = kid
		}
	}
	switch {
	case before != nil && endLine(before) == c.Span.Start.Line:
		appendComment(before, "trailingComments", c)
	case after != nil:
		appendComment(after, "leadingComments", c)
	case before != nil:
		appendComment(before, "trailingComments", c)
	default:
		appendComment(node, "innerComments", c)
	}
}
