// Copyright (C) 2025 the vmbench authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bench

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTrial(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX shell utilities")
	}

	t.Run("captures output with script path appended", func(t *testing.T) {
		r := NewRunner()
		out, err := r.RunTrial(context.Background(), []string{"echo", "hello"}, "world")
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", out)
	})

	t.Run("unknown executable is unavailable", func(t *testing.T) {
		r := NewRunner()
		_, err := r.RunTrial(context.Background(), []string{"no-such-interpreter-xyz"}, "x")
		require.ErrorIs(t, err, ErrTargetUnavailable)
	})

	t.Run("empty command is unavailable", func(t *testing.T) {
		r := NewRunner()
		_, err := r.RunTrial(context.Background(), nil, "x")
		require.ErrorIs(t, err, ErrTargetUnavailable)
	})

	t.Run("non-zero exit still returns the output", func(t *testing.T) {
		r := NewRunner()
		out, err := r.RunTrial(context.Background(), []string{"sh", "-c"}, "echo boom; exit 3")
		require.NoError(t, err)
		assert.Equal(t, "boom\n", out)
	})

	t.Run("timeout aborts the trial", func(t *testing.T) {
		r := NewRunner(WithTrialTimeout(50 * time.Millisecond))
		_, err := r.RunTrial(context.Background(), []string{"sleep"}, "5")
		require.ErrorIs(t, err, ErrTrialTimeout)
	})

	t.Run("cancelled context is surfaced", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := NewRunner()
		_, err := r.RunTrial(ctx, []string{"sleep"}, "5")
		require.ErrorIs(t, err, context.Canceled)
	})
}
