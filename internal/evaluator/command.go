package evaluator

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/parser"
	"github.com/hajdbo/jqsh/internal/values"
)

// runCommand invokes an external process. Each upstream value is written
// to the process's stdin in literal form, one per line, followed by an
// end-of-transmission byte; stdout is then decoded as a stream of JSON
// values. Stderr passes through to the interpreter's own stderr.
func runCommand(argv []string, in *channel.Channel, yield func(values.Value) bool) {
	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		yieldCommandFailure(errors.Wrap(err, "open stdin pipe"), yield)
		return
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		yieldCommandFailure(errors.Wrap(err, "open stdout pipe"), yield)
		return
	}
	if err := cmd.Start(); err != nil {
		yieldCommandFailure(errors.Wrapf(err, "start %s", argv[0]), yield)
		return
	}
	for v := range in.Values() {
		if _, err := io.WriteString(stdin, v.String()+"\n"); err != nil {
			break
		}
	}
	stdin.Write([]byte{0x04})
	stdin.Close()
	output, err := io.ReadAll(stdout)
	// the exit status is irrelevant, only whether stdout decodes
	if werr := cmd.Wait(); werr != nil {
		slog.Debug("command exited abnormally", "argv", argv, "err", werr)
	}
	if err != nil {
		slog.Debug("command failed", "argv", argv, "err", err)
		yield(values.NewException(values.CommandOutput))
		return
	}
	decoded, err := parser.ParseJSONValues(bytes.NewReader(output))
	if err != nil {
		slog.Debug("command output did not decode", "argv", argv, "err", err)
		yield(values.NewException(values.CommandOutput))
		return
	}
	for _, v := range decoded {
		if !yield(v) {
			return
		}
	}
}

// yieldCommandFailure classifies a process launch failure into the
// path/permission exception kinds.
func yieldCommandFailure(err error, yield func(values.Value) bool) {
	slog.Debug("command launch failed", "err", err)
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		yield(values.NewException(values.PathError))
	case errors.Is(err, fs.ErrPermission):
		yield(values.NewException(values.Permission))
	default:
		yield(values.NewException(values.PathError))
	}
}
