// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/matt-FFFFFF/svgbatch/internal/transform"
)

// Format is a job file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// ErrMarshalExample is returned when the example job cannot be rendered.
var ErrMarshalExample = errors.New("failed to render example job")

// ExampleJob is a complete job using the command transform with a fallback.
func ExampleJob() *Job {
	return &Job{
		Source: Source{
			Paths:      []string{"./icons"},
			Recursive:  true,
			Extensions: []string{".svg", ".svgz"},
		},
		Output:          "./dist/png",
		ContinueOnError: true,
		Options: map[string]string{
			"width": "256",
		},
		Transform: &transform.Spec{
			Type:      transform.CommandName,
			Exec:      "rsvg-convert",
			Args:      []string{"--width", `{{index .Options "width"}}`, "--output", "{{.Output}}", "{{.Source}}"},
			Extension: ".png",
			Env:       map[string]string{"LC_ALL": "C"},
			Fallback: &transform.FallbackSpec{
				Exec: "inkscape",
				Args: []string{"--export-type=png", "--export-filename={{.Output}}", "{{.Source}}"},
			},
		},
	}
}

// Example renders ExampleJob in the given format.
func Example(f Format) ([]byte, error) {
	job := ExampleJob()

	switch f {
	case FormatYAML, "":
		b, err := yaml.Marshal(job)
		if err != nil {
			return nil, errors.Join(ErrMarshalExample, err)
		}

		return b, nil
	case FormatHCL:
		file := hclwrite.NewEmptyFile()
		gohcl.EncodeIntoBody(job, file.Body())

		return file.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %w: %s", ErrMarshalExample, ErrUnknownFormat, f)
	}
}
