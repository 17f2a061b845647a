//go:build windows

package fs

import (
	"errors"
	"syscall"
)

// ERROR_NOT_SAME_DEVICE
const errNotSameDevice syscall.Errno = 17

func isEXDEV(err error) bool {
	return errors.Is(err, errNotSameDevice)
}
