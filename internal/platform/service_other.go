//go:build !linux

package platform

import "runtime"

// NewService reports that no native window service is compiled in for this
// OS. Callers keep running with a nil Service and every operation degrades.
func NewService(opts Options) (Service, error) {
	return nil, &UnsupportedPlatformError{OS: runtime.GOOS}
}
