// Package installer sequences the external calls that place a Qt SDK on
// disk: native library dependencies, the aqt package installer itself, and
// the aqt subcommands for binaries, sources, documentation, examples and
// auxiliary tools. Steps run strictly in order; the first failing call
// aborts the rest.
package installer

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"qtsetup/internal/config"
)

// Step names reported to the progress callback, in execution order.
const (
	StepDeps     = "deps"
	StepAqt      = "aqt"
	StepQt       = "qt"
	StepSrc      = "src"
	StepDoc      = "doc"
	StepExamples = "examples"
	StepTools    = "tools"
)

// Steps lists every step name in order.
var Steps = []string{StepDeps, StepAqt, StepQt, StepSrc, StepDoc, StepExamples, StepTools}

// StepStatus is the lifecycle state reported for a step.
type StepStatus string

const (
	StatusRunning StepStatus = "running"
	StatusDone    StepStatus = "done"
	StatusSkipped StepStatus = "skipped"
	StatusFailed  StepStatus = "failed"
)

// ReportFunc receives step transitions; nil disables reporting.
type ReportFunc func(step string, status StepStatus, detail string)

// Installer drives the install sequence for one resolved configuration.
type Installer struct {
	cfg    config.Config
	runner Runner
	logger *log.Logger
	tags   TagLister
	out    io.Writer
	report ReportFunc
}

// Option configures an Installer.
type Option func(*Installer)

// WithRunner substitutes the command runner.
func WithRunner(r Runner) Option {
	return func(i *Installer) { i.runner = r }
}

// WithTagLister substitutes the remote tag listing used for wildcard aqt
// version constraints.
func WithTagLister(l TagLister) Option {
	return func(i *Installer) { i.tags = l }
}

// WithOutput streams external command output to w.
func WithOutput(w io.Writer) Option {
	return func(i *Installer) { i.out = w }
}

// WithReporter registers a step progress callback.
func WithReporter(fn ReportFunc) Option {
	return func(i *Installer) { i.report = fn }
}

// New builds an Installer for cfg logging through logger.
func New(cfg config.Config, logger *log.Logger, opts ...Option) *Installer {
	inst := &Installer{
		cfg:    cfg,
		runner: CmdRunner{},
		logger: logger,
		tags:   NewGitHubTagLister(),
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Run executes the full sequence. Any external failure propagates
// immediately; there is no retry and no rollback of completed steps.
func (i *Installer) Run(ctx context.Context) error {
	type step struct {
		name string
		fn   func(context.Context) (bool, error)
	}

	caps := Capabilities{}
	steps := []step{
		{StepDeps, i.installLinuxDeps},
		{StepAqt, func(ctx context.Context) (bool, error) {
			ran, err := i.installAqt(ctx)
			if err != nil {
				return ran, err
			}
			caps, err = i.detectCapabilities(ctx)
			return true, err
		}},
		{StepQt, func(ctx context.Context) (bool, error) { return i.installQt(ctx, caps) }},
		{StepSrc, i.installSrc},
		{StepDoc, i.installDoc},
		{StepExamples, i.installExamples},
		{StepTools, i.installTools},
	}

	for _, st := range steps {
		i.reportStep(st.name, StatusRunning, "")
		ran, err := st.fn(ctx)
		switch {
		case err != nil:
			i.reportStep(st.name, StatusFailed, err.Error())
			return fmt.Errorf("%s: %w", st.name, err)
		case ran:
			i.reportStep(st.name, StatusDone, "")
		default:
			i.reportStep(st.name, StatusSkipped, "")
		}
	}
	return nil
}

func (i *Installer) reportStep(step string, status StepStatus, detail string) {
	if i.report != nil {
		i.report(step, status, detail)
	}
}

func (i *Installer) run(ctx context.Context, command string, args ...string) error {
	i.logger.Debug("exec", "cmd", commandLine(command, args))
	_, err := i.runner.Run(ctx, command, args, RunOptions{Stdout: i.out, Stderr: i.out})
	if err != nil {
		return fmt.Errorf("%s: %w", commandLine(command, args), err)
	}
	return nil
}

// installQt invokes the install-qt subcommand when binaries are requested.
func (i *Installer) installQt(ctx context.Context, caps Capabilities) (bool, error) {
	cfg := i.cfg
	if !cfg.InstallQtBinaries {
		return false, nil
	}

	args := []string{"install-qt", cfg.Host, cfg.Target, cfg.Version}
	if cfg.Arch != "" {
		args = append(args, cfg.Arch)
	}
	if caps.AutoDesktop && cfg.NeedsParallelDesktop() {
		args = append(args, "--autodesktop")
	}
	args = append(args, "--outputdir", cfg.Dir)
	if len(cfg.Modules) > 0 {
		args = append(append(args, "--modules"), cfg.Modules...)
	}
	if len(cfg.Archives) > 0 {
		args = append(append(args, "--archives"), cfg.Archives...)
	}

	if cfg.Wasm != config.WasmNone {
		if cfg.VersionAtLeast("6.7.0") && caps.WasmFork {
			args = append(args, "--wasm", cfg.Wasm)
		} else {
			i.logger.Warn("wasm build requested but not supported by this tool/version combination; skipping --wasm",
				"wasm", cfg.Wasm, "qt", cfg.Version, "aqt", caps.Version)
		}
	}

	args = append(args, cfg.Extra...)
	return true, i.run(ctx, "aqt", args...)
}

func (i *Installer) installSrc(ctx context.Context) (bool, error) {
	if !i.cfg.Src {
		return false, nil
	}
	args := []string{"install-src", i.cfg.Host, i.cfg.Version, "--outputdir", i.cfg.Dir}
	if len(i.cfg.SrcArchives) > 0 {
		args = append(append(args, "--archives"), i.cfg.SrcArchives...)
	}
	return true, i.run(ctx, "aqt", args...)
}

func (i *Installer) installDoc(ctx context.Context) (bool, error) {
	if !i.cfg.Doc {
		return false, nil
	}
	args := []string{"install-doc", i.cfg.Host, i.cfg.Version, "--outputdir", i.cfg.Dir}
	if len(i.cfg.DocModules) > 0 {
		args = append(append(args, "--modules"), i.cfg.DocModules...)
	}
	if len(i.cfg.DocArchives) > 0 {
		args = append(append(args, "--archives"), i.cfg.DocArchives...)
	}
	return true, i.run(ctx, "aqt", args...)
}

func (i *Installer) installExamples(ctx context.Context) (bool, error) {
	if !i.cfg.Example {
		return false, nil
	}
	args := []string{"install-example", i.cfg.Host, i.cfg.Version, "--outputdir", i.cfg.Dir}
	if len(i.cfg.ExampleModules) > 0 {
		args = append(append(args, "--modules"), i.cfg.ExampleModules...)
	}
	if len(i.cfg.ExampleArchives) > 0 {
		args = append(append(args, "--archives"), i.cfg.ExampleArchives...)
	}
	return true, i.run(ctx, "aqt", args...)
}

// installTools installs each auxiliary tool entry. Entries already had
// commas rewritten to spaces at resolution time; the fields pass through as
// separate arguments.
func (i *Installer) installTools(ctx context.Context) (bool, error) {
	if len(i.cfg.Tools) == 0 {
		return false, nil
	}
	for _, tool := range i.cfg.Tools {
		args := []string{"install-tool", i.cfg.Host, i.cfg.Target}
		args = append(args, splitFields(tool)...)
		args = append(args, "--outputdir", i.cfg.Dir)
		if err := i.run(ctx, "aqt", args...); err != nil {
			return true, err
		}
	}
	return true, nil
}
