package wrapper

import (
	"os"
	"path/filepath"

	"github.com/Norgate-AV/clcache/internal/cmdline"
	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/Norgate-AV/clcache/internal/entrycodec"
	"github.com/Norgate-AV/clcache/internal/sourcedeps"
	"github.com/Norgate-AV/clcache/internal/wrapperrors"
)

// RunForMiss compiles every input named by missInfos in a single real
// compiler invocation, then harvests each input's dependency report and
// writes its FileTracker logs. It populates Dependencies on each
// MissInfo; it does not touch the cache.
func (w *MSVC) RunForMiss(missInfos []*MissInfo) (RunResult, error) {
	args := w.parsed.Merge(cmdline.MergeSkipInputs)
	for _, mi := range missInfos {
		f, ok := w.parsed.InputFileByName(mi.InputName)
		if !ok {
			continue
		}
		rendered := cmdline.InputFile{Name: f.Name, DeclaredType: w.parsed.EffectiveType(f)}
		args = append(args, rendered.AsArg())
	}

	depDir, err := os.MkdirTemp("", "clcache-deps-")
	if err != nil {
		return RunResult{}, wrapperrors.Fatal("creating dependency report directory", err)
	}
	defer os.RemoveAll(depDir)

	args = append(args, "/sourceDependencies", depDir)

	argv, cleanup, err := buildArgv(w.argv[0], args)
	if err != nil {
		return RunResult{}, wrapperrors.Fatal("preparing compiler response file", err)
	}
	defer cleanup()

	childEnv := filterEnv(os.Environ(), "CL", "_CL_", "VS_UNICODE_OUTPUT")

	result, err := w.runner.Run(argv, childEnv)
	if err != nil {
		return RunResult{}, wrapperrors.Fatal("running compiler", err)
	}

	for _, mi := range missInfos {
		w.tlog.AddSource(mi.InputName)
	}
	w.tlog.FinalizeSources()

	for _, mi := range missInfos {
		record, depPaths := w.readDependencyReport(depDir, mi.InputName)
		mi.Dependencies = record

		if mi.BuildFiles != nil {
			_ = w.tlog.WriteLogs(mi.InputName, pathsOnly(mi.BuildFiles), depPaths)
		}
	}

	return result, nil
}

// readDependencyReport loads the dependency report cl.exe wrote for
// input under depDir, excludes system includes, and returns both the
// digest record to cache and the raw dependency paths for the tlog.
// A missing or malformed report (the input may simply have failed to
// compile) yields an empty record rather than an error.
func (w *MSVC) readDependencyReport(depDir, input string) (entrycodec.DependencyRecord, []string) {
	reportPath := filepath.Join(depDir, filepath.Base(input)+".json")

	deps, err := sourcedeps.Read(reportPath)
	if err != nil {
		return entrycodec.DependencyRecord{}, nil
	}

	record := make(entrycodec.DependencyRecord)
	var paths []string
	for _, d := range deps {
		if w.isSystemInclude(d) {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		h, err := w.ledger.GetOrCompute(abs, digest.SumFile)
		if err != nil {
			continue
		}
		record[abs] = h
		paths = append(paths, abs)
	}

	return record, paths
}

// pathsOnly projects a build-file map down to its destination paths, the
// shape filetracker.WriteLogs expects.
func pathsOnly(files map[string]BuildFile) map[string]string {
	out := make(map[string]string, len(files))
	for id, f := range files {
		out[id] = f.Path
	}
	return out
}
