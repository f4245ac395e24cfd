// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapable(t *testing.T) {
	t.Setenv(NoColor, "1")
	assert.False(t, capable(true), "NO_COLOR disables colour on a terminal")

	t.Setenv(ForceColor, "1")
	assert.False(t, capable(false), "NO_COLOR still wins over FORCE_COLOR")

	t.Setenv(NoColor, "")
	assert.True(t, capable(false), "FORCE_COLOR enables colour without a terminal")

	t.Setenv(ForceColor, "")
	assert.True(t, capable(true))
	assert.False(t, capable(false))
}

func TestColorize(t *testing.T) {
	prev := SetEnabled(true)
	t.Cleanup(func() { SetEnabled(prev) })

	tests := []struct {
		name  string
		in    string
		codes []Code
		want  string
	}{
		{name: "single", in: "ok", codes: []Code{FgGreen}, want: "\033[32mok\033[0m"},
		{name: "multiple", in: "bad", codes: []Code{Bold, FgRed}, want: "\033[1;31mbad\033[0m"},
		{name: "hi intensity", in: "x", codes: []Code{FgHiYellow}, want: "\033[93mx\033[0m"},
		{name: "no codes", in: "plain", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Colorize(tt.in, tt.codes...))
		})
	}
}

func TestColorizeDisabled(t *testing.T) {
	prev := SetEnabled(false)
	t.Cleanup(func() { SetEnabled(prev) })

	assert.Equal(t, "text", Colorize("text", FgRed, Bold))
	assert.Equal(t, "\033[31mtext\033[0m", Wrap("text", FgRed))
}
