package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/clcache/internal/clconfig"
	"github.com/Norgate-AV/clcache/internal/cmdline"
	"github.com/Norgate-AV/clcache/internal/filetracker"
	"github.com/Norgate-AV/clcache/internal/localcache"
	"github.com/Norgate-AV/clcache/internal/version"
	"github.com/Norgate-AV/clcache/internal/wrapper"
	"github.com/Norgate-AV/clcache/internal/wrapperrors"
)

var rootCmd = &cobra.Command{
	Use:                "clcache <compiler-path> [compiler-args...]",
	Short:              "A caching wrapper for MSVC's cl.exe",
	Long:               `clcache observes a cl.exe invocation, and on a cache hit, restores its outputs instead of running the real compiler.`,
	RunE:               runWrap,
	SilenceUsage:       true,
	DisableFlagParsing: true,
	Args:               cobra.MinimumNArgs(1),
}

// Execute runs the root command, exiting the process with the compiler's
// own return code so that clcache is transparent to whatever invoked it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if ec, ok := err.(exitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitCoder lets runWrap propagate the wrapped compiler's own exit code
// through cobra's RunE, rather than always exiting 1 on error.
type exitCoder interface {
	error
	ExitCode() int
}

type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("compiler exited with code %d", e.code) }
func (e *exitError) ExitCode() int { return e.code }

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().String("dir", "", "Cache directory (default: ~/.clcache)")
	rootCmd.PersistentFlags().Bool("compress", false, "Store captured compiler output zstd-compressed in new cache entries (object files are not compressed)")
	rootCmd.PersistentFlags().Bool("debug", false, "Verbose diagnostic logging")
	rootCmd.PersistentFlags().Bool("disable", false, "Bypass the cache; always run the real compiler")
	rootCmd.AddCommand(cacheCmd)
}

// runWrap is clcache's default action: treat args as a compiler
// invocation, run it through the wrapper pipeline, and surface its
// outcome exactly as the real compiler would have reported it.
func runWrap(cmd *cobra.Command, args []string) error {
	cfg, err := clconfig.NewLoader().LoadForCommand(cmd)
	if err != nil {
		return fmt.Errorf("clcache: loading configuration: %w", err)
	}

	if cfg.Disabled {
		return runReal(args)
	}

	filetracker.Suspend()

	cache, err := localcache.New(cfg.CacheDir)
	if err != nil {
		filetracker.Resume()
		return fmt.Errorf("clcache: opening cache: %w", err)
	}
	defer cache.Close()

	w, err := wrapper.New(args, cmdline.OSEnv{}, cache, wrapper.NewOSRunner())
	if err != nil {
		if wrapperrors.IsDecline(err) {
			filetracker.ReleaseSuppression()
			return runReal(args)
		}
		filetracker.Resume()
		return err
	}
	w.SetCompress(cfg.Compress)

	result, err := w.Run()
	if err != nil {
		if wrapperrors.IsDecline(err) {
			filetracker.ReleaseSuppression()
			return runReal(args)
		}
		filetracker.Resume()
		return err
	}
	filetracker.Resume()

	fmt.Fprint(cmd.OutOrStdout(), result.StdOut)
	fmt.Fprint(cmd.ErrOrStderr(), result.StdErr)

	if cfg.Debug {
		origin := "miss"
		if result.Cached {
			origin = "hit"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "clcache: %s (exit %d)\n", origin, result.ReturnCode)
	}

	if result.ReturnCode != 0 {
		return &exitError{code: result.ReturnCode}
	}
	return nil
}

// runReal executes the real compiler directly. Callers resume FileTracker
// instrumentation before calling this, so that the surrounding build
// system observes its I/O for every invocation this wrapper declines to
// cache.
func runReal(args []string) error {
	c := exec.Command(args[0], args[1:]...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin

	err := c.Run()
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &exitError{code: exitErr.ExitCode()}
	}
	return err
}
