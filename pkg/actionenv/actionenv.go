// Package actionenv writes environment variables, search-path additions and
// step outputs through the append-file protocol CI runners expose
// (GITHUB_ENV, GITHUB_PATH, GITHUB_OUTPUT). Outside a runner it falls back
// to an export script plus stdout, so local runs can eval the result.
package actionenv

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer publishes variables to the configured sinks. The zero value is not
// usable; construct with New or NewWithFiles.
type Writer struct {
	envFile    string
	pathFile   string
	outputFile string

	// script collects export lines when no env file is available.
	script *os.File
	out    io.Writer
}

// New builds a Writer from the ambient GITHUB_ENV / GITHUB_PATH /
// GITHUB_OUTPUT variables. scriptPath, when non-empty, receives shell export
// lines for any sink without a backing file. Outputs additionally echo to
// out when no output file exists.
func New(scriptPath string, out io.Writer) (*Writer, error) {
	w := &Writer{
		envFile:    os.Getenv("GITHUB_ENV"),
		pathFile:   os.Getenv("GITHUB_PATH"),
		outputFile: os.Getenv("GITHUB_OUTPUT"),
		out:        out,
	}
	if scriptPath != "" && (w.envFile == "" || w.pathFile == "") {
		f, err := os.OpenFile(scriptPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open env script: %w", err)
		}
		w.script = f
	}
	return w, nil
}

// NewWithFiles builds a Writer against explicit protocol files; empty paths
// disable the corresponding sink. Used by tests and embedding callers.
func NewWithFiles(envFile, pathFile, outputFile string, out io.Writer) *Writer {
	return &Writer{envFile: envFile, pathFile: pathFile, outputFile: outputFile, out: out}
}

// Close finishes the fallback script if one was opened.
func (w *Writer) Close() error {
	if w.script == nil {
		return nil
	}
	err := w.script.Close()
	w.script = nil
	return err
}

// SetEnv exports name=value to subsequent steps and to the current process.
func (w *Writer) SetEnv(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return err
	}
	if w.envFile != "" {
		return appendLine(w.envFile, formatEnvLine(name, value))
	}
	if w.script != nil {
		_, err := fmt.Fprintf(w.script, "export %s=%s\n", name, shellQuote(value))
		return err
	}
	return nil
}

// PrependPath puts dir ahead of the search path for subsequent steps and for
// the current process.
func (w *Writer) PrependPath(dir string) error {
	current := os.Getenv("PATH")
	joined := dir
	if current != "" {
		joined = dir + string(os.PathListSeparator) + current
	}
	if err := os.Setenv("PATH", joined); err != nil {
		return err
	}
	if w.pathFile != "" {
		return appendLine(w.pathFile, dir+"\n")
	}
	if w.script != nil {
		_, err := fmt.Fprintf(w.script, "export PATH=%s:\"$PATH\"\n", shellQuote(dir))
		return err
	}
	return nil
}

// SetOutput publishes a named step output.
func (w *Writer) SetOutput(name, value string) error {
	if w.outputFile != "" {
		return appendLine(w.outputFile, formatEnvLine(name, value))
	}
	if w.out != nil {
		_, err := fmt.Fprintf(w.out, "%s=%s\n", name, value)
		return err
	}
	return nil
}

// formatEnvLine emits "name=value\n", switching to the heredoc delimiter
// form when the value spans lines.
func formatEnvLine(name, value string) string {
	if !strings.ContainsAny(value, "\n\r") {
		return fmt.Sprintf("%s=%s\n", name, value)
	}
	delimiter := "EOF_qtsetup"
	for strings.Contains(value, delimiter) {
		delimiter += "_"
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
