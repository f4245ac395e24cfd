// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the config command.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/svgbatch/internal/config"
	"github.com/matt-FFFFFF/svgbatch/internal/transform"
	"github.com/urfave/cli/v3"
)

const formatArg = "format"

// ConfigCmd prints an example job file and the available transforms.
var ConfigCmd = &cli.Command{
	Name:  "config",
	Usage: "Print an example job file in yaml (default) or hcl",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      formatArg,
			UsageText: "[yaml|hcl]",
		},
	},
	Action: actionFunc,
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	b, err := config.Example(config.Format(cmd.StringArg(formatArg)))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(w, "Available transforms:\n\n")

	for _, t := range transform.DefaultRegistry.Types() {
		fmt.Fprintf(w, "- %s\n", t)
	}

	fmt.Fprintf(w, "\nExample job:\n\n%s", b)

	return nil
}
