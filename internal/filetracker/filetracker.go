// Package filetracker produces MSBuild-compatible FileTracker .tlog files
// and suspends/resumes the host's own FileTracker instrumentation for the
// wrapper's lifetime, so that the wrapper's file I/O is not double-counted
// by the surrounding build system.
package filetracker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Env abstracts environment-variable lookup for testability.
type Env interface {
	Lookup(key string) (string, bool)
}

// Log accumulates the sources compiled in a single invocation and writes
// per-input read/write tlog files once the outcome of each is known.
type Log struct {
	enabled      bool
	intermediate string
	toolchain    string
	sources      []string
	root         string
}

// NewLog builds a Log from the TRACKER_ENABLED/TRACKER_INTERMEDIATE/
// TRACKER_TOOLCHAIN environment variables.
func NewLog(env Env) *Log {
	enabled, _ := env.Lookup("TRACKER_ENABLED")
	l := &Log{enabled: isTruthy(enabled)}
	if !l.enabled {
		return l
	}
	l.intermediate, _ = env.Lookup("TRACKER_INTERMEDIATE")
	l.toolchain, _ = env.Lookup("TRACKER_TOOLCHAIN")
	return l
}

// Enabled reports whether tracking is active for this invocation.
func (l *Log) Enabled() bool {
	return l.enabled
}

// BuildFiles returns the read/write tlog paths associated with filename,
// keyed "tlog_r" and "tlog_w", or nil when tracking is disabled.
func (l *Log) BuildFiles(filename string) map[string]string {
	if !l.enabled {
		return nil
	}
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, ".", "_")
	return map[string]string{
		"tlog_r": filepath.Join(l.intermediate, l.toolchain+"."+base+".read.1.tlog"),
		"tlog_w": filepath.Join(l.intermediate, l.toolchain+"."+base+".write.1.tlog"),
	}
}

// AddSource records an input file's path for inclusion in the root marker
// written to every tlog this invocation produces.
func (l *Log) AddSource(path string) {
	if !l.enabled {
		return
	}
	full, err := l.fullpath(path)
	if err != nil {
		return
	}
	l.sources = append(l.sources, full)
}

// FinalizeSources sorts the accumulated sources and builds the root
// marker line. Call once after all AddSource calls, before WriteLogs.
func (l *Log) FinalizeSources() {
	if !l.enabled {
		return
	}
	sort.Strings(l.sources)
	l.root = "^" + strings.Join(l.sources, "|")
}

// WriteLogs writes the read and write tlogs for one input file. files
// must contain "object" (and "pch" if a PCH is being created) and,
// because tracking is enabled, "tlog_r"/"tlog_w" build-file paths.
func (l *Log) WriteLogs(source string, files map[string]string, deps []string) error {
	if !l.enabled {
		return nil
	}

	object, err := l.fullpath(files["object"])
	if err != nil {
		return err
	}
	src, err := l.fullpath(source)
	if err != nil {
		return err
	}

	readLines := []string{l.root, src}
	readLines = append(readLines, deps...)
	readLines = append(readLines, object)
	readContent := strings.ToUpper(strings.Join(readLines, "\r\n")) + "\r\n"
	if err := os.WriteFile(files["tlog_r"], []byte(readContent), 0o644); err != nil {
		return fmt.Errorf("filetracker: writing read tlog: %w", err)
	}

	// The write tlog is not upper-cased as a whole; only the object path
	// (already uppercased above) and the root marker (already uppercased
	// by AddSource) carry that case convention. A PCH path is written
	// exactly as given.
	writeLines := []string{l.root}
	if pch, ok := files["pch"]; ok && pch != "" {
		writeLines = append(writeLines, pch)
	}
	writeLines = append(writeLines, object)
	writeContent := strings.Join(writeLines, "\r\n") + "\r\n"
	if err := os.WriteFile(files["tlog_w"], []byte(writeContent), 0o644); err != nil {
		return fmt.Errorf("filetracker: writing write tlog: %w", err)
	}

	return nil
}

func (l *Log) fullpath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("filetracker: resolving %q: %w", path, err)
	}
	return strings.ToUpper(abs), nil
}

func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return strings.EqualFold(s, "yes")
}
