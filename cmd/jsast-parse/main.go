package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/jsast/pkg/common"
	"github.com/spicery/jsast/pkg/parser"
	"github.com/spicery/jsast/pkg/strip"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const DEFAULT_FORMAT = "JSON"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	defaults := parser.DefaultDialect()
	flags := pflag.NewFlagSet("jsast-parse", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	var input = flags.StringP("input", "i", "", "Source file to parse (default stdin)")
	var format = flags.StringP("format", "f", DEFAULT_FORMAT, "Output format (JSON, YAML, ASCIITREE)")
	var dialectFile = flags.StringP("dialect", "d", "", "YAML file describing the parser dialect")
	var sourceType = flags.String("source-type", defaults.SourceType, "Source type (module or script)")
	var plugins = flags.StringSlice("plugin", defaults.Plugins, "Parser plugins to enable")
	var doStrip = flags.Bool("strip", true, "Remove location data from the tree")
	var indent = flags.Int("indent", 2, "Indentation level for display purposes")
	var trim = flags.Int("trim", 0, "Trim names for display purposes")
	var version = flags.Bool("version", false, "Print version and exit")
	var help = flags.BoolP("help", "h", false, "Print help message and exit")

	// Custom usage message.
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jsast-parse [options]\n")
		fmt.Fprintf(stderr, "\nParses JavaScript with optional Flow annotations and prints the syntax tree.\n\n")
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
		fmt.Fprintf(stdout, "jsast-parse version %s\n", Version)
		return 0
	}

	// Handle help flag.
	if *help {
		flags.Usage()
		return 0
	}

	printFunc, err := common.PickPrintFunc(*format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var source []byte
	if *input != "" {
		source, err = os.ReadFile(*input)
	} else {
		source, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return 1
	}

	dialect := defaults
	if *dialectFile != "" {
		loaded, err := parser.LoadDialect(*dialectFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading dialect: %v\n", err)
			return 1
		}
		dialect = *loaded
	}
	if flags.Changed("source-type") {
		dialect.SourceType = *sourceType
	}
	if flags.Changed("plugin") {
		dialect.Plugins = *plugins
	}
	tree, err := parser.Parse(string(source), dialect)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing input: %v\n", err)
		return 1
	}

	var root common.Value = tree
	if *doStrip {
		root = strip.Strip(tree, strip.LocationKeys)
	}

	err = printFunc(root, common.IndentString(*indent), stdout, &common.PrintOptions{
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
