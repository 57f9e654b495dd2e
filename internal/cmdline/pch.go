package cmdline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PCHOutputPath computes the path of the precompiled-header file this
// invocation creates or consumes, given the input file that would create
// it (or, when Path already names a file, ignoring the input entirely)
// and the major version component used to build the default PCH name.
func PCHOutputPath(cfg PCHConfig, inputName string, vcMajor uint16) string {
	p := cfg.Path
	switch {
	case p == "":
		return replaceExt(inputName, ".pch")
	case strings.HasSuffix(p, `\`) || strings.HasSuffix(p, "/"):
		// Concatenate directly rather than filepath.Join: p already
		// carries a Windows-style trailing separator that must survive
		// unchanged even when this runs on a non-Windows build.
		return p + defaultPCHName(vcMajor)
	default:
		return replaceExt(p, ".pch")
	}
}

// defaultPCHName returns the default PCH file name cl.exe uses when /Fp
// names a directory rather than a specific file, e.g. "vc1430.pch".
func defaultPCHName(vcMajor uint16) string {
	return fmt.Sprintf("vc%d0.pch", vcMajor)
}

// replaceExt returns name with its extension (if any) replaced by ext.
func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
