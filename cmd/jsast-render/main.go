package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/jsast/pkg/codegen"
	"github.com/spicery/jsast/pkg/render"
)

// Version is injected at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, render.IsTerminal(os.Stdin), os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, interactive bool, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("jsast-render", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	var compact = flags.Bool("compact", false, "Generate compact code")
	var version = flags.Bool("version", false, "Print version and exit")
	var help = flags.BoolP("help", "h", false, "Print help message and exit")

	// Custom usage message.
	flags.Usage = func() {
		fmt.Fprintf(stderr, "%s\n", render.Usage)
		fmt.Fprintf(stderr, "\nConverts a JSON syntax tree into JavaScript source.\n")
		fmt.Fprintf(stderr, "From a terminal, reads <input_ast_json> and writes <output_js>.\n")
		fmt.Fprintf(stderr, "In a pipe, reads the tree from stdin and writes the source to stdout.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	// Handle version flag.
	if *version {
		fmt.Fprintf(stdout, "jsast-render version %s\n", Version)
		return 0
	}

	// Handle help flag.
	if *help {
		flags.Usage()
		return 0
	}

	err := render.Run(render.Options{
		Args:        flags.Args(),
		Interactive: interactive,
		Stdin:       stdin,
		Stdout:      stdout,
		Generator:   codegen.Options{Compact: *compact},
	})
	var usage *render.UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(stdout, render.Usage)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error rendering syntax tree: %v\n", err)
		return 1
	}
	return 0
}
