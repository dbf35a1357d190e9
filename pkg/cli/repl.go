package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/config"
	"github.com/hajdbo/jqsh/internal/evaluator"
	"github.com/hajdbo/jqsh/internal/parser"
	"github.com/hajdbo/jqsh/internal/values"
)

// runREPL reads one filter program per line and evaluates it against an
// empty input. Ctrl-C aborts the current line, Ctrl-D exits. Lines are
// persisted per session in the history store.
func runREPL(cfg config.Config, catalog channel.Catalog, stdout, stderr io.Writer) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	session := uuid.NewString()
	history, err := openHistory(cfg.HistoryPath)
	if err != nil {
		slog.Debug("history store unavailable", "path", cfg.HistoryPath, "err", err)
	} else {
		defer history.Close()
		for _, entry := range history.Recent(replHistoryLimit) {
			line.AppendHistory(entry)
		}
	}

	for {
		input, err := line.Prompt(cfg.Prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl-D
			fmt.Fprintln(stdout)
			return 0
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if history != nil {
			history.Append(session, input)
		}
		evalLine(input, catalog, stdout, stderr)
	}
}

const replHistoryLimit = 1000

func evalLine(source string, catalog channel.Catalog, stdout, stderr io.Writer) {
	f, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintf(stderr, "jqsh: %v\n", err)
		return
	}
	in := seedChannel(nil, nil, catalog)
	for v := range evaluator.Start(f, in).Values() {
		if exc, ok := v.(*values.Exception); ok {
			fmt.Fprintf(stderr, "jqsh: uncaught exception: %s\n", exc.Name)
			continue
		}
		fmt.Fprintln(stdout, v.String())
	}
}
