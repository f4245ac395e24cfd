// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the soft cancel hook shared by main and the commands.
// Signals are received in main before any command has built its orchestrator,
// therefore global state is the only option.
package cmdstate

import "sync/atomic"

var softCancel atomic.Pointer[func()]

// SetSoftCancel installs f as the action for the first interrupt and returns
// a function that removes it again.
func SetSoftCancel(f func()) (restore func()) {
	softCancel.Store(&f)

	return func() {
		softCancel.CompareAndSwap(&f, nil)
	}
}

// SoftCancel runs the installed hook, if any, and reports whether one ran.
func SoftCancel() bool {
	f := softCancel.Load()
	if f == nil || *f == nil {
		return false
	}

	(*f)()

	return true
}
