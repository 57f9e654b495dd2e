package msvcver

import (
	"fmt"
	"strings"
)

// MinSourceDependenciesVersion is the minimum VC toolset version that
// supports /sourceDependencies, which direct mode depends on.
var MinSourceDependenciesVersion = Version{Major: 14, Minor: 27}

// Env abstracts environment-variable lookup so Probe is testable without
// mutating the process environment.
type Env interface {
	Lookup(key string) (string, bool)
}

// Probe derives a ToolVersion from the environment and, failing that, from
// the compiler's own path. compilerPath is argv[0] of the invocation being
// wrapped, e.g. `...\VC\Tools\MSVC\14.29.30133\bin\HostX64\x64\cl.exe`.
func Probe(env Env, compilerPath string) (ToolVersion, error) {
	var tv ToolVersion

	segments := strings.Split(compilerPath, `\`)
	n := len(segments)
	pathValid := false

	if hostArch, ok := env.Lookup("VSCMD_ARG_HOST_ARCH"); ok && hostArch != "" {
		tv.HostArch = hostArch
	} else if n >= 3 && strings.HasPrefix(segments[n-3], "Host") {
		tv.HostArch = segments[n-3][4:]
		pathValid = true
	}

	if targetArch, ok := env.Lookup("VSCMD_ARG_TGT_ARCH"); ok && targetArch != "" {
		tv.TargetArch = targetArch
	} else if pathValid {
		tv.TargetArch = segments[n-2]
	}

	if tv.HostArch == "" || tv.TargetArch == "" {
		return ToolVersion{}, fmt.Errorf("msvcver: failed to determine compiler host/target architecture from %q", compilerPath)
	}

	if vcToolsVersion, ok := env.Lookup("VCToolsVersion"); ok && vcToolsVersion != "" {
		tv.VCVersion = Parse(vcToolsVersion)
	} else if pathValid && n >= 5 {
		tv.VCVersion = Parse(segments[n-5])
	} else {
		return ToolVersion{}, fmt.Errorf("msvcver: failed to determine VC tools version from %q", compilerPath)
	}

	return tv, nil
}

// SupportsSourceDependencies reports whether tv's toolset is new enough to
// emit /sourceDependencies reports.
func (tv ToolVersion) SupportsSourceDependencies() bool {
	return !tv.VCVersion.Less(MinSourceDependenciesVersion)
}
