package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/strip"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const DEFAULT_FORMAT = "YAML"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("jsast-convert-tree", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	var format = flags.StringP("format", "f", DEFAULT_FORMAT, "Output format (JSON, YAML, ASCIITREE)")
	var indent = flags.Int("indent", 2, "Indentation level for display purposes")
	var trim = flags.Int("trim", 0, "Trim names for display purposes")
	var doStrip = flags.Bool("strip", false, "Remove location data from the tree")
	var stripKeys = flags.StringSlice("strip-key", strip.LocationKeys.Keys(), "Keys removed by --strip")
	var version = flags.Bool("version", false, "Print version and exit")
	var help = flags.BoolP("help", "h", false, "Print help message and exit")

	// Custom usage message.
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jsast-convert-tree [options]\n")
		fmt.Fprintf(stderr, "\nConverts a syntax tree from JSON format to various output formats.\n")
		fmt.Fprintf(stderr, "Reads JSON from stdin and writes the converted tree to stdout.\n\n")
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
		fmt.Fprintf(stdout, "jsast-convert-tree version %s\n", Version)
		return 0
	}

	// Handle help flag.
	if *help {
		flags.Usage()
		return 0
	}

	// Select the appropriate print function based on format.
	printFunc, err := common.PickPrintFunc(*format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Read JSON from stdin.
	tree, err := common.ReadJSON(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading JSON input: %v\n", err)
		return 1
	}
	if *doStrip {
		tree = strip.Strip(tree, strip.NewKeySet(*stripKeys...))
	}

	err = printFunc(tree, common.IndentString(*indent), stdout, &common.PrintOptions{
		Format:            *format,
		Indent:            *indent,
		TrimTokenOnOutput: *trim,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}
