package wrapper

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Norgate-AV/clcache/internal/cmdline"
	"github.com/Norgate-AV/clcache/internal/depledger"
	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/Norgate-AV/clcache/internal/entrycodec"
	"github.com/Norgate-AV/clcache/internal/filetracker"
	"github.com/Norgate-AV/clcache/internal/msvcver"
	"github.com/Norgate-AV/clcache/internal/wrapperrors"
)

// hashVersion is bumped whenever the fingerprint format changes in a way
// that invalidates previously cached entries.
const hashVersion = "1"

// MSVC drives one cl.exe invocation through the cache pipeline: parse,
// validate, fingerprint each input, consult the cache, and on miss run
// the real compiler and harvest its outputs.
type MSVC struct {
	argv        []string
	env         Env
	cache       Cache
	runner      Runner
	tlog        *filetracker.Log
	ledger      *depledger.Ledger
	toolVersion msvcver.ToolVersion
	includeDirs []string
	parsed      *cmdline.ParsedCommandLine
	compress    bool
}

// SetCompress toggles zstd compression of captured output in newly stored
// cache entries. Off by default.
func (w *MSVC) SetCompress(v bool) {
	w.compress = v
}

// New builds a wrapper for one invocation, probing the tool version and
// reading the INCLUDE environment variable eagerly; neither depends on
// the parsed command line.
func New(argv []string, env Env, cache Cache, runner Runner) (*MSVC, error) {
	if len(argv) == 0 {
		return nil, wrapperrors.Decline("empty argument vector")
	}

	w := &MSVC{
		argv:   argv,
		env:    env,
		cache:  cache,
		runner: runner,
		tlog:   filetracker.NewLog(env),
		ledger: depledger.New(),
	}

	if include, ok := env.Lookup("INCLUDE"); ok {
		for _, dir := range strings.Split(include, ";") {
			if dir == "" {
				continue
			}
			w.includeDirs = append(w.includeDirs, strings.ToLower(dir))
		}
	}

	return w, nil
}

// CanHandleCommand reports whether argv[0] names the cl.exe driver.
func (w *MSVC) CanHandleCommand() bool {
	base := driverBaseName(w.argv[0])
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.EqualFold(base, "cl")
}

// driverBaseName returns path's final path element, splitting on `\`
// like msvcver.Probe does, since a compiler path is always Windows-style
// regardless of the platform this wrapper is built for.
func driverBaseName(path string) string {
	segments := strings.Split(path, `\`)
	return segments[len(segments)-1]
}

// ResolveArgs parses the command line and the tool version, and enforces
// the invocations this wrapper declines to cache.
func (w *MSVC) ResolveArgs() error {
	tv, err := msvcver.Probe(w.env, w.argv[0])
	if err != nil {
		return wrapperrors.Decline("%v", err)
	}
	w.toolVersion = tv

	parsed, err := cmdline.Parse(w.argv, w.env)
	if err != nil {
		return wrapperrors.Decline("%v", err)
	}
	w.parsed = parsed

	if !parsed.CompileOnly {
		return wrapperrors.Decline("chained link")
	}
	if len(parsed.InputFiles) > 1 && !parsed.ObjPathIsDir() {
		return wrapperrors.Decline("single object for multiple inputs")
	}
	if parsed.DebugFormat == cmdline.DebugSeparateFile || parsed.DebugFormat == cmdline.DebugSeparateEdit {
		return wrapperrors.Decline("shared pdb")
	}
	if tv.VCVersion.Less(msvcver.MinSourceDependenciesVersion) {
		return wrapperrors.Decline("VC Tools >= 14.27 required")
	}

	return nil
}

// GetRelevantArguments returns the canonical argument subset shared by
// every input file's fingerprint (direct mode: type flags and inputs
// themselves are accounted for separately, per file).
func (w *MSVC) GetRelevantArguments() []string {
	return w.parsed.Merge(cmdline.MergeDirectModeCommonArgs)
}

// GetProgramID returns the opaque identifier for the exact compiler
// binary this invocation targets.
func (w *MSVC) GetProgramID() string {
	return w.toolVersion.ProgramID(hashVersion)
}

// preprocessTypeTag labels an input's effective type for inclusion in its
// fingerprint, so that a bare filename rename that changes language mode
// (e.g. via a changed extension) cannot collide with an unrelated hit.
func preprocessTypeTag(t cmdline.InputType) string {
	switch t {
	case cmdline.C:
		return "c"
	case cmdline.Cpp:
		return "cpp"
	case cmdline.Object:
		return "object"
	default:
		return "unknown"
	}
}

// fingerprintKey computes the per-input fingerprint: the hash of the
// relevant arguments, program ID, effective type tag, raw input content,
// and the INCLUDE environment value.
func (w *MSVC) fingerprintKey(f cmdline.InputFile, relevantArgs []string, programID string) (digest.Hash, error) {
	content, err := os.ReadFile(f.Name)
	if err != nil {
		return digest.Hash{}, wrapperrors.Decline("reading input file %q: %v", f.Name, err)
	}

	include, _ := w.env.Lookup("INCLUDE")

	var buf strings.Builder
	buf.WriteString(strings.Join(relevantArgs, "\x00"))
	buf.WriteByte(0)
	buf.WriteString(programID)
	buf.WriteByte(0)
	buf.WriteString(preprocessTypeTag(w.parsed.EffectiveType(f)))
	buf.WriteByte(0)
	buf.Write(content)
	buf.WriteByte(0)
	buf.WriteString(include)

	return digest.Sum([]byte(buf.String())), nil
}

// isSystemInclude reports whether path falls under one of the directories
// named by INCLUDE, per the system-include exclusion invariant.
func (w *MSVC) isSystemInclude(path string) bool {
	lower := strings.ToLower(path)
	for _, dir := range w.includeDirs {
		if strings.HasPrefix(lower, dir) {
			return true
		}
	}
	return false
}

// FilterCacheHit reports whether entry's recorded dependency digests all
// still match the files on disk, consulting and updating the dependency
// ledger. Any mismatch or hashing failure demotes the lookup to a miss.
func (w *MSVC) FilterCacheHit(entry entrycodec.Entry) bool {
	for path, want := range entry.Dependencies {
		got, err := w.ledger.GetOrCompute(path, digest.SumFile)
		if err != nil {
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// basenameNoExt returns name's final path element with its extension
// removed.
func basenameNoExt(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
