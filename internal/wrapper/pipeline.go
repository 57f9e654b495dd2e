package wrapper

import (
	"os"
	"path/filepath"

	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/Norgate-AV/clcache/internal/entrycodec"
	"github.com/Norgate-AV/clcache/internal/wrapperrors"
)

// Run drives one invocation through the full state machine: New →
// ArgsResolved → {Hit | Miss} → Done. It is the only entry point the CLI
// layer calls; everything else on MSVC exists to make this orchestration
// testable in pieces.
func (w *MSVC) Run() (Result, error) {
	if !w.CanHandleCommand() {
		return Result{}, wrapperrors.Decline("unsupported driver %q", filepath.Base(w.argv[0]))
	}
	if err := w.ResolveArgs(); err != nil {
		return Result{}, err
	}

	relevantArgs := w.GetRelevantArguments()
	programID := w.GetProgramID()
	buildFiles := w.GetBuildFiles()

	keys := make(map[string]digest.Hash, len(w.parsed.InputFiles))
	var missInfos []*MissInfo
	hits := make(map[string]entrycodec.Entry)

	for _, f := range w.parsed.InputFiles {
		key, err := w.fingerprintKey(f, relevantArgs, programID)
		if err != nil {
			return Result{}, err
		}
		keys[f.Name] = key

		entry, found, err := w.cache.Lookup(key)
		if err == nil && found && w.FilterCacheHit(entry) {
			hits[f.Name] = entry
			continue
		}

		missInfos = append(missInfos, &MissInfo{
			InputName:  f.Name,
			Key:        key,
			BuildFiles: buildFiles[f.Name],
		})
	}

	result := Result{Cached: len(missInfos) == 0}

	if len(missInfos) > 0 {
		runResult, err := w.RunForMiss(missInfos)
		if err != nil {
			return Result{}, err
		}
		result.ReturnCode = runResult.ReturnCode
		result.StdOut = runResult.StdOut
		result.StdErr = runResult.StdErr

		for _, mi := range missInfos {
			w.storeMiss(mi, runResult.ReturnCode)
		}
	}

	// Apply hits in parse order, not map iteration order, so that the
	// returned diagnostics and exit code are deterministic when several
	// inputs happen to hit independent cache entries. Any nonzero code
	// among the hits wins, matching how a real batched invocation would
	// surface the first failure.
	for _, f := range w.parsed.InputFiles {
		entry, ok := hits[f.Name]
		if !ok {
			continue
		}
		w.restoreHit(keys[f.Name], entry, buildFiles[f.Name])
		if result.ReturnCode == 0 {
			result.ReturnCode = int(entry.ReturnCode)
			result.StdOut = entry.StdOut
			result.StdErr = entry.StdErr
		}
	}

	return result, nil
}

// storeMiss packages a completed miss into a cache entry and writes it.
// Only build files that actually exist on disk are named as file IDs; a
// build that failed for this particular input simply caches an entry
// with no artifacts but a faithful return code and dependency record.
func (w *MSVC) storeMiss(mi *MissInfo, returnCode int) {
	var fileIDs []string
	sourcePaths := make(map[string]string)

	for id, f := range mi.BuildFiles {
		if !f.Cacheable {
			continue
		}
		if _, err := os.Stat(f.Path); err != nil {
			continue
		}
		fileIDs = append(fileIDs, id)
		sourcePaths[id] = f.Path
	}

	compression := entrycodec.CompressionNone
	if w.compress {
		compression = entrycodec.CompressionAll
	}

	entry := entrycodec.Entry{
		FileIDs:      fileIDs,
		Compression:  compression,
		ReturnCode:   int32(returnCode),
		Dependencies: mi.Dependencies,
	}

	_ = w.cache.Store(mi.Key, entry, sourcePaths)
}

// restoreHit copies a hit's cached artifacts back to the paths this
// invocation expects them at. A failure to restore is not escalated to a
// miss; FilterCacheHit already verified the dependencies, and a restore
// failure here most likely means the cache's own storage was tampered
// with or removed out from under it, which is out of scope to repair.
func (w *MSVC) restoreHit(key digest.Hash, entry entrycodec.Entry, files map[string]BuildFile) {
	targets := make(map[string]string)
	for _, id := range entry.FileIDs {
		if f, ok := files[id]; ok && f.Cacheable {
			targets[id] = f.Path
		}
	}
	_ = w.cache.Restore(key, targets)
}
