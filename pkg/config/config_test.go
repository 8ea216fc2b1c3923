package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/darvid/reqwire/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), Overrides{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseDir != "requirements" || cfg.SourceDir != "src" || cfg.BuildDir != "lck" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Extension != ".in" {
		t.Errorf("Extension = %q, want .in", cfg.Extension)
	}
	if cfg.PipCompileCommand != "pip-compile" || cfg.PipCommand != "pip" {
		t.Errorf("unexpected command defaults: %+v", cfg)
	}
}

func TestLoad_Pyproject(t *testing.T) {
	dir := t.TempDir()
	content := `
[tool.reqwire]
base-dir = "deps"
source-dir = "in"
build-dir = "out"
compile-args = "--generate-hashes --no-annotate"
`
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir, Overrides{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseDir != "deps" || cfg.SourceDir != "in" || cfg.BuildDir != "out" {
		t.Errorf("pyproject values not applied: %+v", cfg)
	}
	if len(cfg.CompileArgs) != 2 || cfg.CompileArgs[0] != "--generate-hashes" || cfg.CompileArgs[1] != "--no-annotate" {
		t.Errorf("CompileArgs = %v", cfg.CompileArgs)
	}
	// Untouched keys keep defaults.
	if cfg.Extension != ".in" {
		t.Errorf("Extension = %q, want .in", cfg.Extension)
	}
}

func TestLoad_PyprojectMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[tool.reqwire\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, Overrides{})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_EnvOverridesPyproject(t *testing.T) {
	dir := t.TempDir()
	content := "[tool.reqwire]\nbase-dir = \"deps\"\nsource-dir = \"in\"\n"
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBaseDir, "envbase")
	t.Setenv(EnvCompileArgs, "--quiet")

	cfg, err := Load(dir, Overrides{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseDir != "envbase" {
		t.Errorf("BaseDir = %q, want envbase (env beats pyproject)", cfg.BaseDir)
	}
	if cfg.SourceDir != "in" {
		t.Errorf("SourceDir = %q, want in (pyproject survives when env unset)", cfg.SourceDir)
	}
	if len(cfg.CompileArgs) != 1 || cfg.CompileArgs[0] != "--quiet" {
		t.Errorf("CompileArgs = %v", cfg.CompileArgs)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv(EnvBaseDir, "envbase")
	t.Setenv(EnvBuildDir, "envbuild")

	cfg, err := Load(t.TempDir(), Overrides{BaseDir: "flagbase"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseDir != "flagbase" {
		t.Errorf("BaseDir = %q, want flagbase (flag beats env)", cfg.BaseDir)
	}
	if cfg.BuildDir != "envbuild" {
		t.Errorf("BuildDir = %q, want envbuild", cfg.BuildDir)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg, err := Load(t.TempDir(), Overrides{BaseDir: "~/reqs"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, "reqs"); cfg.BaseDir != want {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, want)
	}
}

func TestPaths(t *testing.T) {
	cfg, err := Load(t.TempDir(), Overrides{BaseDir: "requirements"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.SourcePath(); got != filepath.Join("requirements", "src") {
		t.Errorf("SourcePath() = %q", got)
	}
	if got := cfg.TagSource("main"); got != filepath.Join("requirements", "src", "main.in") {
		t.Errorf("TagSource(main) = %q", got)
	}
	if got := cfg.TagBuild("qa"); got != filepath.Join("requirements", "lck", "qa.txt") {
		t.Errorf("TagBuild(qa) = %q", got)
	}
}
