package clconfig

import (
	"os"
	"path/filepath"
)

// configFileBase is the config file's name, minus extension; Viper tries
// each of configExtensions in order for each directory visited.
const configFileBase = ".clcache"

var configExtensions = []string{"yml", "yaml", "json", "toml"}

// FindLocalConfig walks up from dir looking for a clcache config file,
// returning the first one found, or "" if none exists above dir.
func FindLocalConfig(dir string) string {
	for {
		for _, ext := range configExtensions {
			path := filepath.Join(dir, configFileBase+"."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
