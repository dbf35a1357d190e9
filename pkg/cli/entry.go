package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hajdbo/jqsh/internal/builtins"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/config"
	"github.com/hajdbo/jqsh/internal/evaluator"
	"github.com/hajdbo/jqsh/internal/lexer"
	"github.com/hajdbo/jqsh/internal/parser"
	"github.com/hajdbo/jqsh/internal/pipeline"
	"github.com/hajdbo/jqsh/internal/values"
)

// Run is the process entry point behind cmd/jqsh. args excludes the
// program name. The exit code is 0 on success, 1 when an exception
// surfaced or the filter failed to parse, 2 on usage errors.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("jqsh", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var filterText string
	flags.StringVar(&filterText, "c", "", "filter to run against JSON values on stdin")
	flags.StringVar(&filterText, "filter", "", "long form of -c")
	debug := flags.Bool("debug", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "jqsh: %v\n", err)
	}
	if *debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	// a TTY carries no JSON input stream
	interactive := false
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		interactive = true
		stdin = nil
	}

	catalog := builtins.Catalog()
	if filterText != "" {
		return runFilter(filterText, flags.Args(), catalog, stdin, stdout, stderr)
	}
	if flags.NArg() > 0 {
		return runFilter(flags.Arg(0), flags.Args()[1:], catalog, stdin, stdout, stderr)
	}
	if interactive {
		return runREPL(cfg, catalog, stdout, stderr)
	}
	fmt.Fprintln(stderr, "jqsh: no filter given")
	return 2
}

// runFilter parses the program, seeds the input channel with the JSON
// values on stdin and prints every output value's literal form.
func runFilter(source string, argv []string, catalog channel.Catalog, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx := pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
	).Run(pipeline.NewContext(source))
	if ctx.Failed() {
		for _, err := range ctx.Errors {
			fmt.Fprintf(stderr, "jqsh: %v\n", err)
		}
		return 1
	}
	var inputs []values.Value
	if stdin != nil {
		var err error
		inputs, err = parser.ParseJSONValues(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "jqsh: reading input: %v\n", err)
			return 1
		}
	}
	in := seedChannel(inputs, argv, catalog)
	failed := false
	for v := range evaluator.Start(ctx.Filter, in).Values() {
		if exc, ok := v.(*values.Exception); ok {
			failed = true
			fmt.Fprintf(stderr, "jqsh: uncaught exception: %s\n", exc.Name)
			continue
		}
		fmt.Fprintln(stdout, v.String())
	}
	if failed {
		return 1
	}
	return 0
}

// seedChannel builds the conventional root input: seeded with the given
// values, terminated, empty namespaces and the top-level context.
func seedChannel(inputs []values.Value, argv []string, catalog channel.Catalog) *channel.Channel {
	in := channel.NewSeed(inputs...)
	in.SetLocals(channel.Namespace{})
	in.SetGlobals(channel.Namespace{})
	in.SetContext(channel.CommandLineContext(argv, catalog))
	in.Terminate()
	return in
}
