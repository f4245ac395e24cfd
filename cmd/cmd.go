// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/svgbatch/cmd/config"
	"github.com/matt-FFFFFF/svgbatch/cmd/convert"
	"github.com/matt-FFFFFF/svgbatch/cmd/show"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		config.ConfigCmd,
		convert.New(),
		show.ShowCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "svgbatch",
	Description: `svgbatch converts a single SVG file, a list of files or a directory tree
in the background. A batch can carry on past failed files, can be cancelled
between files and ends with a summary of what was converted.`,
	Usage:     "svgbatch convert -r -o ./dist ./icons",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
