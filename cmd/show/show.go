// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements the show command.
package show

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/svgbatch/internal/aggregator"
	"github.com/urfave/cli/v3"
)

const (
	fileArg    = "file"
	itemsFlag  = "items"
	cliExitStr = ""
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteOutcome is returned when the outcome cannot be written.
	ErrWriteOutcome = errors.New("failed to write outcome")
)

// ShowCmd prints an outcome saved by convert --out.
var ShowCmd = &cli.Command{
	Name:        "show",
	Usage:       "Show a previously saved conversion outcome",
	Description: "Show a conversion outcome saved with convert --out.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      fileArg,
			UsageText: "FILE",
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  itemsFlag,
			Usage: "List every converted file and its artifacts",
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		name := cmd.StringArg(fileArg)
		if name == "" {
			return cli.Exit("Please provide an outcome file", 1)
		}

		file, err := os.Open(name)
		if err != nil {
			return errors.Join(ErrReadFile, err)
		}

		defer file.Close() //nolint:errcheck

		o, err := aggregator.ReadBinary(file)
		if err != nil {
			return err
		}

		w := cmd.Root().Writer
		if w == nil {
			w = os.Stdout
		}

		fmt.Fprintf(w, "Batch %s: %s (%s, %s)\n", o.BatchID, o.Source, o.Started.Format("2006-01-02 15:04:05"), o.Duration())

		if cmd.Bool(itemsFlag) {
			for _, it := range o.Items {
				if it.OK {
					fmt.Fprintf(w, "  ✓ %s -> %v\n", it.Path, it.Artifacts)
				}
			}
		}

		if err := aggregator.WriteSummary(w, o); err != nil {
			return errors.Join(ErrWriteOutcome, err)
		}

		if !o.Successful() {
			return cli.Exit(cliExitStr, 1)
		}

		return nil
	},
}
