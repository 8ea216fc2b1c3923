// Package cli implements the reqwire command-line interface.
//
// This package provides commands for initializing a requirements tree,
// adding and removing dependency specifiers in tagged source files, building
// pinned lock files with pip-compile, and managing the HTTP response cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/darvid/reqwire/pkg/buildinfo"
	"github.com/darvid/reqwire/pkg/config"
	"github.com/darvid/reqwire/pkg/httputil"
	"github.com/darvid/reqwire/pkg/piptools"
	"github.com/darvid/reqwire/pkg/pypi"
)

const (
	// appName is the application name used for directories and display.
	appName = "reqwire"

	// cacheTTL is how long PyPI metadata responses stay fresh.
	cacheTTL = time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
//
// The Resolver, Compiler, and Installer fields are test seams: when nil,
// production implementations (the PyPI client, pip-compile, pip) are built
// on demand from the resolved configuration.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	Resolver  pypi.Resolver
	Compiler  piptools.Compiler
	Installer piptools.Installer

	// WorkDir is the project root searched for pyproject.toml; empty means
	// the current directory.
	WorkDir string

	overrides config.Overrides
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Configuration is resolved once, before any command runs; directory flags
// take precedence over environment variables and pyproject.toml.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "reqwire wires up Python requirements",
		Long:         `reqwire organizes Python dependency specifiers into tagged requirement source files and builds pinned lock files from them with pip-compile.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.WorkDir, c.overrides)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.overrides.BaseDir, "base-dir", "", "requirements tree root (default \"requirements\")")
	flags.StringVar(&c.overrides.SourceDir, "source-dir", "", "source subdirectory (default \"src\")")
	flags.StringVar(&c.overrides.BuildDir, "build-dir", "", "build subdirectory (default \"lck\")")
	flags.StringVar(&c.overrides.Extension, "extension", "", "source file extension (default \".in\")")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newResolver returns the injected Resolver or builds the production PyPI
// client. indexURLs come from the target tag files, rewritten from their
// "simple" form; the public index is always consulted first.
func (c *CLI) newResolver(indexURLs []string) pypi.Resolver {
	if c.Resolver != nil {
		return c.Resolver
	}

	urls := []string{pypi.DefaultIndexURL}
	for _, u := range indexURLs {
		if mapped := pypi.SimpleToJSON(u); mapped != urls[0] {
			urls = append(urls, mapped)
		}
	}

	cache, err := httputil.NewCache(c.cachePath(), cacheTTL)
	if err != nil {
		c.Logger.Debug("cache unavailable, lookups go uncached", "err", err)
		cache = nil
	}
	return pypi.NewClient(cache, urls...)
}

// newCompiler returns the injected Compiler or a pip-compile runner.
func (c *CLI) newCompiler() piptools.Compiler {
	if c.Compiler != nil {
		return c.Compiler
	}
	return &piptools.PipCompile{Command: c.Config.PipCompileCommand}
}

// newInstaller returns the injected Installer or a pip runner.
func (c *CLI) newInstaller() piptools.Installer {
	if c.Installer != nil {
		return c.Installer
	}
	return &piptools.Pip{Command: c.Config.PipCommand}
}

// cachePath returns the cache directory using the XDG convention
// (~/.cache/reqwire/).
func (c *CLI) cachePath() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}
