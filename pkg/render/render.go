// Package render turns a serialized syntax tree back into source text. It
// backs the jsast-render command: two file arguments when run from a
// terminal, stdin to stdout when run in a pipe.
package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/spicery/jsast/pkg/codegen"
	"github.com/spicery/jsast/pkg/common"
)

// Usage is printed when the command is run from a terminal without both
// file arguments.
const Usage = "Usage: jsast-render <input_ast_json> <output_js>"

// UsageError is returned before any I/O when file mode lacks arguments.
type UsageError struct {
	Got int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("expected 2 arguments, got %d", e.Got)
}

// Options describes one invocation.
type Options struct {
	// Args are the positional arguments: input tree and output file.
	Args []string
	// Interactive is true when standard input is a terminal.
	Interactive bool
	Stdin       io.Reader
	Stdout      io.Writer
	// Generator settings. The command always renders in non-compact mode.
	Generator codegen.Options
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run performs one rendering. In interactive mode it reads Args[0] and
// writes Args[1]; otherwise it reads Stdin to EOF and writes Stdout.
func Run(opts Options) error {
	if !opts.Interactive {
		code, err := Render(opts.Stdin, opts.Generator)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(opts.Stdout, code); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	if len(opts.Args) < 2 {
		return &UsageError{Got: len(opts.Args)}
	}
	input, output := opts.Args[0], opts.Args[1]
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	code, err := Render(f, opts.Generator)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
		return err
	}
	return nil
}

// Render decodes one JSON tree from r and generates its source text.
func Render(r io.Reader, opts codegen.Options) (string, error) {
	tree, err := common.ReadJSON(r)
	if err != nil {
		return "", fmt.Errorf("decoding syntax tree: %w", err)
	}
	return codegen.Generate(tree, opts)
}
