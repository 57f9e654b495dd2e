package filetracker

// ReleaseSuppression resumes FileTracker instrumentation on demand, ahead
// of a fallback action (e.g. a decline) whose file I/O the surrounding
// build system needs to observe.
func ReleaseSuppression() {
	Resume()
}
