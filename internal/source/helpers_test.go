// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package source

import (
	"testing"
)

// checkStringEqual fails the test when got != want.
func checkStringEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

// checkTrue fails the test when the condition is false.
func checkTrue(t *testing.T, desc string, cond bool) {
	t.Helper()
	if !cond {
		t.Errorf("expected %s", desc)
	}
}

// checkFloatNear fails the test when got is not within eps of want.
func checkFloatNear(t *testing.T, field string, got, want, eps float64) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > eps {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}
