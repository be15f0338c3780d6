package installer

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
)

// RunOptions selects where a command's output streams while it runs. Output
// is always captured for the caller regardless.
type RunOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult carries the captured output of an invocation.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes external commands. The production implementation shells
// out; tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner runs commands through os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, opts.Stdout)
	cmd.Stderr = tee(&stderr, opts.Stderr)

	err := cmd.Run()
	return RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

var _ Runner = CmdRunner{}

// tee duplicates captured output into an optional stream writer.
func tee(buf *bytes.Buffer, extra io.Writer) io.Writer {
	if extra == nil {
		return buf
	}
	return io.MultiWriter(buf, extra)
}

func commandLine(command string, args []string) string {
	return command + " " + strings.Join(args, " ")
}
