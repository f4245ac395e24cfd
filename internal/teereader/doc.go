// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader wraps a converter's output stream and remembers the last
// non-blank line passing through it, so a failure can be reported with the
// converter's final message instead of its whole output.
package teereader
