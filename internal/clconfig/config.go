// Package clconfig resolves clcache's own configuration: cache location,
// compression policy, and debug logging, from flags, CLCACHE_* environment
// variables, and a discovered config file, in that priority order, via
// Viper.
package clconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultCacheDirName = ".clcache"
	DefaultCompress     = false
	DefaultDebug        = false
)

// Config holds the options that govern clcache's own behavior, as
// distinct from the MSVC command line it is wrapping.
type Config struct {
	// CacheDir is the root directory the local cache is stored under.
	CacheDir string

	// Compress enables zstd compression of captured stdout/stderr in
	// newly written cache entries.
	Compress bool

	// Debug enables verbose diagnostic logging to stderr.
	Debug bool

	// Disabled bypasses the cache entirely; every invocation runs the
	// real compiler uncached.
	Disabled bool
}

// Load builds a Config from whatever Viper has already resolved (flags,
// CLCACHE_* environment variables, and a config file), applying defaults
// for anything left unset.
func Load() (*Config, error) {
	cfg := &Config{
		CacheDir: viper.GetString("dir"),
		Compress: viper.GetBool("compress"),
		Debug:    viper.GetBool("debug"),
		Disabled: viper.GetBool("disabled"),
	}

	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("clconfig: resolving default cache directory: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, DefaultCacheDirName)
	}

	abs, err := filepath.Abs(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("clconfig: resolving cache directory %q: %w", cfg.CacheDir, err)
	}
	cfg.CacheDir = abs

	return cfg, nil
}
