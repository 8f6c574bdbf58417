package common

import (
	"fmt"
	"io"
	"strings"
)

// PrintFunc writes a tree in one output format.
type PrintFunc func(root Value, indentDelta string, output io.Writer, options *PrintOptions) error

// TrimValue trims a string value for display when trimming is enabled.
func TrimValue(value string, trimLength int) string {
	if trimLength > 0 && len([]rune(value)) > trimLength {
		runes := []rune(value)
		// Reserve space for Unicode ellipsis (1 character: "…")
		if trimLength >= 2 {
			return string(runes[:trimLength-1]) + "…"
		}
		return string(runes[:trimLength])
	}
	return value
}

// PickPrintFunc selects a tree writer by format name.
func PickPrintFunc(format string) (PrintFunc, error) {
	switch strings.ToUpper(format) {
	case "JSON":
		return PrintASTJSON, nil
	case "YAML":
		return PrintASTYAML, nil
	case "ASCIITREE":
		return PrintASTAsciiTree, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// IndentString returns n spaces.
func IndentString(n int) string {
	return strings.Repeat(" ", n)
}
