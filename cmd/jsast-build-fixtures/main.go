package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	pflag "github.com/spf13/pflag"

	"github.com/spicery/jsast/pkg/ctxlog"
	"github.com/spicery/jsast/pkg/fixtures"
)

// Version is injected at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("jsast-build-fixtures", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	var configFile = flags.StringP("config", "c", "", "YAML configuration file")
	var dirs = flags.StringArrayP("dir", "d", nil, "Fixture directory (repeatable, replaces the configured list)")
	var jobs = flags.IntP("jobs", "j", 0, "Number of templates converted at once")
	var keepGoing = flags.BoolP("keep-going", "k", false, "Convert every template and report all failures")
	var watch = flags.BoolP("watch", "w", false, "Rebuild fixtures when templates change")
	var check = flags.Bool("check", false, "Report stale fixtures without writing")
	var debug = flags.Bool("debug", false, "Enable debug logging")
	var version = flags.Bool("version", false, "Print version and exit")
	var help = flags.BoolP("help", "h", false, "Print help message and exit")

	// Custom usage message.
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jsast-build-fixtures [options]\n")
		fmt.Fprintf(stderr, "\nParses every template in the fixture directories and writes its syntax tree,\n")
		fmt.Fprintf(stderr, "without location data, to a JSON fixture beside it.\n\n")
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
		fmt.Fprintf(stdout, "jsast-build-fixtures version %s\n", Version)
		return 0
	}

	// Handle help flag.
	if *help {
		flags.Usage()
		return 0
	}

	config := fixtures.DefaultConfig()
	if *configFile != "" {
		loaded, err := fixtures.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
			return 1
		}
		config = *loaded
	}
	if flags.Changed("dir") {
		config.Directories = *dirs
	}
	if flags.Changed("jobs") {
		config.Jobs = *jobs
	}
	if flags.Changed("keep-going") {
		config.KeepGoing = *keepGoing
	}

	builder, err := fixtures.NewBuilder(config)
	if err != nil {
		fmt.Fprintf(stderr, "Error in configuration: %v\n", err)
		return 1
	}

	level := "info"
	if *debug {
		level = "debug"
	}
	ctx = ctxlog.WithLogger(ctx, ctxlog.New(level, "text", stdout))

	if *check {
		stale, err := builder.Check(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Error checking fixtures: %v\n", err)
			return 1
		}
		for _, path := range stale {
			fmt.Fprintf(stderr, "stale fixture: %s\n", path)
		}
		if len(stale) > 0 {
			return 1
		}
		return 0
	}

	if err := builder.Build(ctx); err != nil {
		fmt.Fprintf(stderr, "Error building fixtures: %v\n", err)
		return 1
	}

	if *watch {
		if err := builder.Watch(ctx, fixtures.DefaultDebounce); err != nil {
			fmt.Fprintf(stderr, "Error watching templates: %v\n", err)
			return 1
		}
	}
	return 0
}
