// Package sourcedeps parses the JSON dependency report that cl.exe emits
// when invoked with /sourceDependencies.
package sourcedeps

import (
	"encoding/json"
	"fmt"
	"os"
)

const supportedVersion = "1.0"

type report struct {
	Version string `json:"Version"`
	Data    struct {
		PCH      *string  `json:"PCH"`
		Includes []string `json:"Includes"`
	} `json:"Data"`
}

// Read parses the dependency report at path and returns the dependency
// paths in report order, with the PCH (if present) listed first.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a dependency report document already read into memory.
func Parse(data []byte) ([]string, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("sourcedeps: malformed dependency report: %w", err)
	}
	if r.Version != supportedVersion {
		return nil, fmt.Errorf("sourcedeps: unsupported dependency report version %q", r.Version)
	}
	if r.Data.Includes == nil {
		return nil, fmt.Errorf("sourcedeps: dependency report missing Includes array")
	}

	var deps []string
	if r.Data.PCH != nil {
		deps = append(deps, *r.Data.PCH)
	}
	deps = append(deps, r.Data.Includes...)
	return deps, nil
}
