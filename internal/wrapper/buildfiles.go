package wrapper

import (
	"path/filepath"

	"github.com/Norgate-AV/clcache/internal/cmdline"
)

// GetBuildFiles computes, for every input file, the set of files this
// invocation is expected to produce: the object file always, the PCH
// file when one is being created, and the FileTracker read/write tlogs
// when tracking is enabled. The object path rule depends on whether
// /Fo names a directory or a specific file; a specific file is only
// valid when there is exactly one input, which ResolveArgs has already
// enforced.
func (w *MSVC) GetBuildFiles() map[string]map[string]BuildFile {
	out := make(map[string]map[string]BuildFile, len(w.parsed.InputFiles))

	for _, f := range w.parsed.InputFiles {
		files := map[string]BuildFile{
			"object": {Path: w.objectPath(f), Cacheable: true},
		}

		if w.parsed.PCHConfig.IsCreate() {
			pchPath := cmdline.PCHOutputPath(w.parsed.PCHConfig, f.Name, w.toolVersion.VCVersion.Major)
			files["pch"] = BuildFile{Path: pchPath, Cacheable: true}
		}

		if w.tlog.Enabled() {
			for id, path := range w.tlog.BuildFiles(f.Name) {
				files[id] = BuildFile{Path: path, Cacheable: false}
			}
		}

		out[f.Name] = files
	}

	return out
}

// objectPath resolves the .obj file an input produces, per §4.9's
// GetBuildFiles rule: a specific /Fo file name if the object path isn't
// a directory, else <dir><basename-without-ext>.obj.
func (w *MSVC) objectPath(f cmdline.InputFile) string {
	if !w.parsed.ObjPathIsDir() {
		if filepath.Ext(w.parsed.ObjectPath) == "" {
			return w.parsed.ObjectPath + ".obj"
		}
		return w.parsed.ObjectPath
	}

	dir := w.parsed.ObjectPath
	base := basenameNoExt(f.Name)
	return dir + base + ".obj"
}
