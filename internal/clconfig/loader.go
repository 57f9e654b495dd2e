package clconfig

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader wires flags, CLCACHE_* environment variables, and a discovered
// config file into Viper ahead of a Load call.
type Loader struct{}

// NewLoader returns a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForCommand prepares Viper for one cobra invocation and returns the
// resolved Config.
func (l *Loader) LoadForCommand(cmd *cobra.Command) (*Config, error) {
	l.setupDefaults()
	l.setupEnv()
	l.loadConfigFile()
	l.bindFlags(cmd)

	return Load()
}

func (l *Loader) setupDefaults() {
	viper.SetDefault("dir", "")
	viper.SetDefault("compress", DefaultCompress)
	viper.SetDefault("debug", DefaultDebug)
	viper.SetDefault("disabled", false)
}

// setupEnv binds CLCACHE_DIR, CLCACHE_COMPRESS, CLCACHE_DEBUG, and
// CLCACHE_DISABLE, matching the MSVC wrapper's own CL/_CL_/INCLUDE
// convention of reading configuration straight from the environment.
func (l *Loader) setupEnv() {
	viper.SetEnvPrefix("clcache")
	_ = viper.BindEnv("dir", "CLCACHE_DIR")
	_ = viper.BindEnv("compress", "CLCACHE_COMPRESS")
	_ = viper.BindEnv("debug", "CLCACHE_DEBUG")
	_ = viper.BindEnv("disabled", "CLCACHE_DISABLE")
}

func (l *Loader) loadConfigFile() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	path := FindLocalConfig(cwd)
	if path == "" {
		return
	}

	viper.SetConfigFile(path)
	_ = viper.ReadInConfig()
}

func (l *Loader) bindFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("compress", cmd.Flags().Lookup("compress"))
	_ = viper.BindPFlag("debug", cmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("disabled", cmd.Flags().Lookup("disable"))
}
