//go:build windows

package filetracker

import (
	"os"
	"sync"

	"golang.org/x/sys/windows"
)

var (
	suspendOnce sync.Once
	suspendFn   *windows.Proc
	resumeFn    *windows.Proc
)

// moduleNames is the search order the real FileTracker.dll loader uses:
// prefer the architecture-specific build, fall back to the generic name.
var moduleNames = []string{"FileTracker64.dll", "FileTracker32.dll", "FileTracker.dll"}

func resolve() bool {
	suspendOnce.Do(func() {
		if !isTruthy(os.Getenv("TRACKER_ENABLED")) {
			return
		}
		for _, name := range moduleNames {
			handle, err := windows.GetModuleHandle(name)
			if err != nil {
				continue
			}
			mod := &windows.DLL{Handle: handle}
			suspend, err1 := mod.FindProc("SuspendTracking")
			resume, err2 := mod.FindProc("ResumeTracking")
			if err1 != nil || err2 != nil {
				continue
			}
			suspendFn, resumeFn = suspend, resume
			return
		}
	})
	return suspendFn != nil && resumeFn != nil
}

// Suspend suspends the host's FileTracker instrumentation for the
// remainder of the process, if the DLL is loaded and tracking is enabled.
// It is a no-op otherwise.
func Suspend() {
	if !resolve() {
		return
	}
	_, _, _ = suspendFn.Call()
}

// Resume resumes the host's FileTracker instrumentation. SuspendTracking /
// ResumeTracking are not recursive: the wrapper calls this exactly once,
// at teardown.
func Resume() {
	if !resolve() {
		return
	}
	_, _, _ = resumeFn.Call()
}
