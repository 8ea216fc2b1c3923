// Package piptools shells out to the pip-tools suite: pip-compile for
// pinning source files into lock files, and pip for installing packages.
// Both tools sit behind small interfaces so command logic tests with fakes.
package piptools

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/darvid/reqwire/pkg/errors"
)

// CompileOptions controls one pip-compile run.
type CompileOptions struct {
	// Header is prepended verbatim to the compiled output.
	Header string
	// ExtraArgs are passed through to pip-compile before the source file.
	ExtraArgs []string
}

// Compiler pins a source file into a lock file.
type Compiler interface {
	Compile(ctx context.Context, src, dest string, opts CompileOptions) error
}

// Installer installs packages into the active environment.
type Installer interface {
	Install(ctx context.Context, specifiers []string, pre bool) error
}

// PipCompile runs the real pip-compile binary.
type PipCompile struct {
	// Command is the binary to run; empty means "pip-compile".
	Command string
	// Stderr receives the tool's diagnostics verbatim; nil means os.Stderr.
	Stderr io.Writer
}

// Compile pins src into dest. pip-compile's stdout is captured, prefixed
// with opts.Header, and written to dest atomically via a temp file in the
// same directory. A failed run leaves any previous dest untouched.
func (p *PipCompile) Compile(ctx context.Context, src, dest string, opts CompileOptions) error {
	command := p.Command
	if command == "" {
		command = "pip-compile"
	}

	args := append([]string{"--output-file", "-"}, opts.ExtraArgs...)
	args = append(args, src)

	cmd := exec.CommandContext(ctx, command, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = p.stderr()

	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeCompileFailed, err, "pip-compile failed for %s", src)
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".reqwire-build-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(opts.Header); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(stdout.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func (p *PipCompile) stderr() io.Writer {
	if p.Stderr != nil {
		return p.Stderr
	}
	return os.Stderr
}

// Pip runs the real pip binary.
type Pip struct {
	// Command is the binary to run; empty means "pip".
	Command string
	// Stdout and Stderr receive the tool's output verbatim; nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Install runs pip install for the given specifier strings, streaming the
// tool's output as it goes.
func (p *Pip) Install(ctx context.Context, specifiers []string, pre bool) error {
	if len(specifiers) == 0 {
		return nil
	}

	command := p.Command
	if command == "" {
		command = "pip"
	}

	args := []string{"install"}
	if pre {
		args = append(args, "--pre")
	}
	args = append(args, specifiers...)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInstallFailed, err, "pip install failed")
	}
	return nil
}
