// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package convert implements the convert command.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/svgbatch/cmd/cmdstate"
	"github.com/matt-FFFFFF/svgbatch/internal/aggregator"
	"github.com/matt-FFFFFF/svgbatch/internal/config"
	"github.com/matt-FFFFFF/svgbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/svgbatch/internal/itemsource"
	"github.com/matt-FFFFFF/svgbatch/internal/orchestrator"
	"github.com/matt-FFFFFF/svgbatch/internal/progress"
	"github.com/matt-FFFFFF/svgbatch/internal/sink"
	"github.com/matt-FFFFFF/svgbatch/internal/transform"
	"github.com/matt-FFFFFF/svgbatch/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	outputFlag          = "output"
	continueOnErrorFlag = "continue-on-error"
	recursiveFlag       = "recursive"
	hiddenFlag          = "hidden"
	securityFlag        = "security"
	transformFlag       = "transform"
	execFlag            = "exec"
	argFlag             = "arg"
	fallbackExecFlag    = "fallback-exec"
	fallbackArgFlag     = "fallback-arg"
	extFlag             = "ext"
	optionFlag          = "option"
	jobFlag             = "job"
	outFlag             = "out"
	tuiFlag             = "tui"
	progressFlag        = "progress"
	logLevelFlag        = "log-level"
	cliExitStr          = ""
	reporterBuffer      = 256
)

var (
	// ErrOption is returned for an --option value that is not key=value.
	ErrOption = errors.New("option must be key=value")
	// ErrBuildJob is returned when flags and job file do not make a valid job.
	ErrBuildJob = errors.New("failed to build conversion job")
	// ErrNotStarted is returned when the orchestrator refused the batch.
	ErrNotStarted = errors.New("conversion did not start")
)

// New returns the convert command.
func New() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert SVG files, a list of files or a directory tree",
		ArgsUsage: "PATH...",
		Description: `Convert one file, several files or a directory of SVG documents.

One directory argument converts the SVG and SVGZ files in it, and in its
subdirectories with --recursive. A job file given with --job may hold the same
settings in YAML or HCL and may be fetched from any location go-getter supports;
flags and arguments override it.

The svgz transform packs .svg files into .svgz and unpacks .svgz files into .svg.
The command transform runs an external converter per file. Its arguments are
Go templates over .Source, .OutputDir, .Output, .Stem, .Ext and .Options.

Press Ctrl+C once to stop after the current file, twice to stop at once.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      outputFlag,
				Aliases:   []string{"o"},
				Usage:     "Write artifacts below this directory, mirroring the source tree",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:     continueOnErrorFlag,
				Aliases:  []string{"k"},
				Usage:    "Keep converting after a file fails",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     recursiveFlag,
				Aliases:  []string{"r"},
				Usage:    "Descend into subdirectories",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     hiddenFlag,
				Usage:    "Include hidden files and directories",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     securityFlag,
				Usage:    "Copy permissions, owner and timestamps onto artifacts and mirrored directories",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     transformFlag,
				Aliases:  []string{"t"},
				Usage:    "Transform type: " + strings.Join(transform.DefaultRegistry.Types(), ", "),
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     execFlag,
				Usage:    "Executable for the command transform",
				OnlyOnce: true,
			},
			&cli.StringSliceFlag{
				Name:  argFlag,
				Usage: "Argument template for --exec, repeat for each argument",
			},
			&cli.StringFlag{
				Name:     fallbackExecFlag,
				Usage:    "Executable tried when --exec fails, marking the result degraded",
				OnlyOnce: true,
			},
			&cli.StringSliceFlag{
				Name:  fallbackArgFlag,
				Usage: "Argument template for --fallback-exec",
			},
			&cli.StringSliceFlag{
				Name:  extFlag,
				Usage: "File extension to convert in directories (default .svg and .svgz)",
			},
			&cli.StringSliceFlag{
				Name:  optionFlag,
				Usage: "Transform option as key=value",
			},
			&cli.StringFlag{
				Name:     jobFlag,
				Aliases:  []string{"j"},
				Usage:    "Job file path or go-getter URL",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      outFlag,
				Usage:     "Save the outcome to this file for the show command",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:     tuiFlag,
				Aliases:  []string{"interactive"},
				Usage:    "Show an interactive Terminal User Interface",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     progressFlag,
				Aliases:  []string{"p"},
				Usage:    "Show a progress spinner on stderr",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     logLevelFlag,
				Usage:    "Log level: debug, info, warn or error (default from " + ctxlog.EnvName() + ")",
				OnlyOnce: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	stdout, stderr := writers(cmd)

	if lvl := cmd.String(logLevelFlag); lvl != "" {
		l, err := ctxlog.ParseLevel(lvl)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		ctxlog.LevelVar.Set(l)
	}

	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	job, err := buildJob(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fsys := itemsource.FS

	req, err := job.Request(fsys)
	if err != nil {
		return cli.Exit(errors.Join(ErrBuildJob, err).Error(), 1)
	}

	t, err := transform.New(job.TransformSpec(), fsys)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts := []orchestrator.Option{orchestrator.WithFs(fsys)}
	if len(job.Source.Extensions) > 0 {
		opts = append(opts, orchestrator.WithExtensions(job.Source.Extensions...))
	}

	logger.Debug("starting conversion", "kind", req.Kind.String(), "paths", req.Paths, "transform", t.Name())

	var outcome aggregator.Outcome

	if cmd.Bool(tuiFlag) {
		outcome, err = runTUI(ctx, req, t, opts, stdout, stderr)
	} else {
		outcome, err = runConsole(ctx, cmd, req, t, opts, stdout, stderr)
	}

	if err != nil {
		logger.Error("conversion did not run", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	if out := cmd.String(outFlag); out != "" {
		if err := saveOutcome(out, outcome); err != nil {
			logger.Error(fmt.Sprintf("Failed to write outcome to file %s: %s", out, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info(fmt.Sprintf("Outcome written to %s", out))
	}

	if !outcome.Successful() {
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

func runConsole(
	ctx context.Context,
	cmd *cli.Command,
	req orchestrator.Request,
	t transform.Transformer,
	opts []orchestrator.Option,
	stdout, stderr io.Writer,
) (aggregator.Outcome, error) {
	console := sink.NewConsole(cmd.Root().Name, stdout, sink.NewTerminal(os.Stdout))

	var reporter *progress.ChannelReporter

	if cmd.Bool(progressFlag) {
		reporter = progress.NewChannelReporter(ctx, reporterBuffer)
		reporter.Listen(sink.NewSpinner(stderr, "Converting"))
		opts = append(opts, orchestrator.WithReporter(reporter))

		defer reporter.Close()
	}

	o := orchestrator.New(req, t, opts...)
	o.Subscribe(console)

	restore := cmdstate.SetSoftCancel(o.CancelAsync)
	defer restore()

	if !o.Convert(ctx, console) {
		return aggregator.Outcome{}, errors.Join(ErrNotStarted, o.Validate())
	}

	<-o.Done()

	outcome, _ := o.Outcome()

	return outcome, nil
}

func runTUI(
	ctx context.Context,
	req orchestrator.Request,
	t transform.Transformer,
	opts []orchestrator.Option,
	stdout, stderr io.Writer,
) (aggregator.Outcome, error) {
	logs := new(bytes.Buffer)
	tuiCtx := ctxlog.New(ctx, ctxlog.NewForTUI(logs))

	runner := tui.NewRunner(tuiCtx)
	o := orchestrator.New(req, t, append(opts, orchestrator.WithReporter(runner.Reporter()))...)

	restore := cmdstate.SetSoftCancel(o.CancelAsync)
	defer restore()

	summary := new(bytes.Buffer)
	outcome, err := runner.Run(tuiCtx, o, summary)

	logs.WriteTo(stderr)    //nolint:errcheck
	summary.WriteTo(stdout) //nolint:errcheck

	return outcome, err
}

// buildJob loads the job file, if any, and applies arguments and flags on top.
func buildJob(ctx context.Context, cmd *cli.Command) (*config.Job, error) {
	job := new(config.Job)

	if loc := cmd.String(jobFlag); loc != "" {
		j, err := config.Load(ctx, loc)
		if err != nil {
			return nil, err
		}

		job = j
	}

	if args := cmd.Args().Slice(); len(args) > 0 {
		job.Source.Paths = args
	}

	if cmd.IsSet(outputFlag) {
		job.Output = cmd.String(outputFlag)
	}

	if cmd.IsSet(continueOnErrorFlag) {
		job.ContinueOnError = cmd.Bool(continueOnErrorFlag)
	}

	if cmd.IsSet(recursiveFlag) {
		job.Source.Recursive = cmd.Bool(recursiveFlag)
	}

	if cmd.IsSet(hiddenFlag) {
		job.Source.IncludeHidden = cmd.Bool(hiddenFlag)
	}

	if cmd.IsSet(securityFlag) {
		job.Source.IncludeSecurity = cmd.Bool(securityFlag)
	}

	if cmd.IsSet(extFlag) {
		job.Source.Extensions = cmd.StringSlice(extFlag)
	}

	for _, kv := range cmd.StringSlice(optionFlag) {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", ErrOption, kv)
		}

		if job.Options == nil {
			job.Options = make(map[string]string)
		}

		job.Options[k] = v
	}

	if cmd.IsSet(transformFlag) || cmd.IsSet(execFlag) || cmd.IsSet(fallbackExecFlag) {
		spec := job.TransformSpec()

		switch {
		case cmd.IsSet(transformFlag):
			spec.Type = cmd.String(transformFlag)
		case cmd.IsSet(execFlag):
			spec.Type = transform.CommandName
		}

		if cmd.IsSet(execFlag) {
			spec.Exec = cmd.String(execFlag)
			spec.Args = cmd.StringSlice(argFlag)
		}

		if cmd.IsSet(fallbackExecFlag) {
			spec.Fallback = &transform.FallbackSpec{
				Exec: cmd.String(fallbackExecFlag),
				Args: cmd.StringSlice(fallbackArgFlag),
			}
		}

		job.Transform = &spec
	}

	return job, nil
}

func saveOutcome(name string, o aggregator.Outcome) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	return writeOutcome(f, o)
}

// writeOutcome encodes o into w and closes it. A failed close means the file
// may be truncated, so it is reported like a failed write.
func writeOutcome(w io.WriteCloser, o aggregator.Outcome) error {
	if err := aggregator.WriteBinary(w, o); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

func writers(cmd *cli.Command) (io.Writer, io.Writer) {
	root := cmd.Root()

	stdout, stderr := root.Writer, root.ErrWriter
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return stdout, stderr
}
