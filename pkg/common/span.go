package common

// Position is a point in source text. Offset counts UTF-16 code units from
// the start of the input, Line is 1-based and Column is 0-based, matching
// the conventions of JavaScript tooling.
type Position struct {
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

func (p Position) lineColumn() *Mapping {
	m := NewMapping()
	m.Set("line", Int(p.Line))
	m.Set("column", Int(p.Column))
	return m
}

// SetLocation writes start, end and loc fields onto a node.
func SetLocation(node *Mapping, span Span) {
	node.Set("start", Int(span.Start.Offset))
	node.Set("end", Int(span.End.Offset))
	loc := NewMapping()
	loc.Set("start", span.Start.lineColumn())
	loc.Set("end", span.End.lineColumn())
	node.Set("loc", loc)
}
