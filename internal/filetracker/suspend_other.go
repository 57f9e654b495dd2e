//go:build !windows

package filetracker

// Suspend is a no-op on platforms without a FileTracker DLL to suspend.
func Suspend() {}

// Resume is a no-op on platforms without a FileTracker DLL to resume.
func Resume() {}
