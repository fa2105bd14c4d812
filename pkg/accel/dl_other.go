//go:build !darwin && !linux && !freebsd && !windows

package accel

import (
	"fmt"
	"runtime"
)

func openLibrary(string) (library, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}
