// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"too many open files", syscall.Errno(4), true},
		{"invalid handle", syscall.Errno(6), true},
		{"not enough memory", syscall.Errno(8), true},
		{"wrapped invalid handle", fmt.Errorf("ReadDirectoryChangesW: %w", syscall.Errno(6)), true},
		{"access denied", syscall.Errno(5), false},
		{"file not found", syscall.Errno(2), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isFatalFsnotifyError(tt.err); got != tt.want {
				t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
