// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes when the output supports it.
//
// Colour is on when stdout is a terminal. NO_COLOR turns it off and FORCE_COLOR
// turns it on for redirected output; NO_COLOR wins when both are set.
package color
