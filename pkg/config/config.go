// Package config resolves reqwire's runtime configuration.
//
// Settings are resolved once at startup with a fixed precedence: command-line
// flag > environment variable > [tool.reqwire] table in pyproject.toml >
// built-in default. The resulting Config is passed explicitly; nothing below
// the CLI layer reads the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	shellwords "github.com/mattn/go-shellwords"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/darvid/reqwire/pkg/errors"
)

// Built-in defaults, matching the conventional requirements tree layout:
//
//	requirements/
//	├── src/    main.in, qa.in, ...
//	└── lck/    main.txt, qa.txt, ...
const (
	DefaultBaseDir   = "requirements"
	DefaultSourceDir = "src"
	DefaultBuildDir  = "lck"
	DefaultExtension = ".in"

	DefaultPipCompileCommand = "pip-compile"
	DefaultPipCommand        = "pip"
)

// Environment variables consulted during resolution.
const (
	EnvBaseDir       = "REQWIRE_DIR_BASE"
	EnvSourceDir     = "REQWIRE_DIR_SOURCE"
	EnvBuildDir      = "REQWIRE_DIR_BUILD"
	EnvExtension     = "REQWIRE_EXTENSION"
	EnvCompileArgs   = "REQWIRE_PIP_COMPILE_ARGS"
	EnvIndexURL      = "PIP_INDEX_URL"
	EnvExtraIndexURL = "PIP_EXTRA_INDEX_URL"
)

// Config holds all resolved settings for one invocation.
type Config struct {
	// BaseDir is the root of the requirements tree. Tilde-expanded.
	BaseDir string
	// SourceDir and BuildDir are relative to BaseDir.
	SourceDir string
	BuildDir  string
	// Extension is the source file suffix, including the dot.
	Extension string

	// CompileArgs are extra arguments appended to every pip-compile run.
	CompileArgs []string

	PipCompileCommand string
	PipCommand        string
}

// Overrides carries flag-level settings. Zero values mean "not set".
type Overrides struct {
	BaseDir     string
	SourceDir   string
	BuildDir    string
	Extension   string
	CompileArgs []string
}

// pyproject mirrors the [tool.reqwire] table:
//
//	[tool.reqwire]
//	base-dir = "deps"
//	source-dir = "in"
//	build-dir = "out"
//	compile-args = "--generate-hashes"
type pyproject struct {
	Tool struct {
		Reqwire struct {
			BaseDir     string `toml:"base-dir"`
			SourceDir   string `toml:"source-dir"`
			BuildDir    string `toml:"build-dir"`
			Extension   string `toml:"extension"`
			CompileArgs string `toml:"compile-args"`
			PipCompile  string `toml:"pip-compile-command"`
			Pip         string `toml:"pip-command"`
		} `toml:"reqwire"`
	} `toml:"tool"`
}

// Load resolves the configuration for a project rooted at dir (empty means
// the current directory). A missing pyproject.toml is not an error; a
// malformed one is.
func Load(dir string, o Overrides) (*Config, error) {
	cfg := &Config{
		BaseDir:           DefaultBaseDir,
		SourceDir:         DefaultSourceDir,
		BuildDir:          DefaultBuildDir,
		Extension:         DefaultExtension,
		PipCompileCommand: DefaultPipCompileCommand,
		PipCommand:        DefaultPipCommand,
	}
	if dir == "" {
		dir = "."
	}

	if err := cfg.applyPyproject(filepath.Join(dir, "pyproject.toml")); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyOverrides(o)

	expanded, err := homedir.Expand(cfg.BaseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "expanding base directory")
	}
	cfg.BaseDir = expanded

	return cfg, nil
}

func (c *Config) applyPyproject(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading pyproject.toml")
	}

	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing pyproject.toml")
	}

	r := p.Tool.Reqwire
	setIf(&c.BaseDir, r.BaseDir)
	setIf(&c.SourceDir, r.SourceDir)
	setIf(&c.BuildDir, r.BuildDir)
	setIf(&c.Extension, r.Extension)
	setIf(&c.PipCompileCommand, r.PipCompile)
	setIf(&c.PipCommand, r.Pip)
	if r.CompileArgs != "" {
		args, err := shellwords.Parse(r.CompileArgs)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing compile-args")
		}
		c.CompileArgs = args
	}
	return nil
}

func (c *Config) applyEnv() error {
	setIf(&c.BaseDir, os.Getenv(EnvBaseDir))
	setIf(&c.SourceDir, os.Getenv(EnvSourceDir))
	setIf(&c.BuildDir, os.Getenv(EnvBuildDir))
	setIf(&c.Extension, os.Getenv(EnvExtension))
	if raw := os.Getenv(EnvCompileArgs); raw != "" {
		args, err := shellwords.Parse(raw)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing "+EnvCompileArgs)
		}
		c.CompileArgs = args
	}
	return nil
}

func (c *Config) applyOverrides(o Overrides) {
	setIf(&c.BaseDir, o.BaseDir)
	setIf(&c.SourceDir, o.SourceDir)
	setIf(&c.BuildDir, o.BuildDir)
	setIf(&c.Extension, o.Extension)
	if len(o.CompileArgs) > 0 {
		c.CompileArgs = o.CompileArgs
	}
}

// SourcePath returns the directory holding tag source files.
func (c *Config) SourcePath() string { return filepath.Join(c.BaseDir, c.SourceDir) }

// BuildPath returns the directory holding compiled lock files.
func (c *Config) BuildPath() string { return filepath.Join(c.BaseDir, c.BuildDir) }

// TagSource returns the source file path for a tag, e.g. requirements/src/main.in.
func (c *Config) TagSource(tag string) string {
	return filepath.Join(c.SourcePath(), tag+c.Extension)
}

// TagBuild returns the lock file path for a tag, e.g. requirements/lck/main.txt.
func (c *Config) TagBuild(tag string) string {
	return filepath.Join(c.BuildPath(), tag+".txt")
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
