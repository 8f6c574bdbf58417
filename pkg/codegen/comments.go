package codegen

import (
	"fmt"
	"strings"

	"github.com/spicery/jsast/pkg/common"
)

// commentKey identifies a comment by position so that one attached to two
// neighbouring nodes is printed once. Comments without positions are
// always printed.
func commentKey(c *common.Mapping) (string, bool) {
	if !c.Has("start") {
		return "", false
	}
	return fmt.Sprintf("%s:%v:%v", c.Type(), c.Num("start"), c.Num("end")), true
}

// printComments writes leading or trailing comments. Comments of a node on
// its own line keep their form; elsewhere line comments become block
// comments so that no line break can change the meaning of the code.
func (g *CodeGenerator) printComments(comments []*common.Mapping, ownLine, leading bool) {
	for _, c := range comments {
		if c == nil {
			continue
		}
		if key, ok := commentKey(c); ok {
			if g.printed[key] {
				continue
			}
			g.printed[key] = true
		}
		g.printComment(c, ownLine, leading)
	}
}

func (g *CodeGenerator) printComment(c *common.Mapping, ownLine, leading bool) {
	value := c.Str("value")
	isBlock := c.Type() == "CommentBlock" || (!ownLine && !strings.Contains(value, "*/"))
	if !leading && !g.out.endsWith("{") && !g.out.endsWith("[") {
		g.space()
	}
	if !isBlock {
		if g.out.endsWith("/") {
			g.out.append(" ")
		}
		g.out.append("//" + value + "\n")
		g.out.absorb = true
		return
	}
	if ownLine && leading {
		g.out.lineBreak()
	}
	if g.out.endsWith("/") {
		g.out.append(" ")
	}
	g.out.append("/*" + value + "*/")
	if ownLine && leading {
		g.out.lineBreak()
	} else if leading {
		g.space()
	}
}

// printInnerComments writes the comments of an empty container on their
// own lines.
func (g *CodeGenerator) printInnerComments(node *common.Mapping) {
	comments := node.List("innerComments")
	if len(comments) == 0 {
		return
	}
	g.out.indent++
	g.out.newline(1)
	g.printComments(comments, true, true)
	g.out.indent--
	g.out.lineBreak()
}
