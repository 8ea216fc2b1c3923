package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darvid/reqwire/pkg/errors"
	"github.com/darvid/reqwire/pkg/piptools"
	"github.com/darvid/reqwire/pkg/requirements"
)

// buildCommand creates the build command.
//
// Arguments after -- are passed through to pip-compile, e.g.
//
//	reqwire build -t main -- --generate-hashes
func (c *CLI) buildCommand() *cobra.Command {
	var all bool
	var tags []string

	cmd := &cobra.Command{
		Use:   "build [-a | -t TAG]... [-- pip-compile args...]",
		Short: "Compile tagged source files into pinned lock files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(tags) == 0 {
				return fmt.Errorf("pass --all or at least one --tag")
			}
			if all {
				discovered, err := c.discoverTags()
				if err != nil {
					return err
				}
				tags = discovered
			}
			return c.compileTags(cmd.Context(), tags, args)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "build every tag in the source directory")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag to build (repeatable)")

	return cmd
}

// discoverTags lists every tag with a source file, in sorted filename order.
func (c *CLI) discoverTags() ([]string, error) {
	entries, err := os.ReadDir(c.Config.SourcePath())
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeMissingDirectory,
			"directory %s does not exist (run `reqwire init` first)", c.Config.SourcePath())
	}
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if tag, ok := strings.CutSuffix(entry.Name(), c.Config.Extension); ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// compileTags builds each tag's lock file, strictly sequentially; the first
// failure aborts the remainder. The build directory is created on demand.
func (c *CLI) compileTags(ctx context.Context, tags []string, extraArgs []string) error {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)

	if err := os.MkdirAll(c.Config.BuildPath(), 0o755); err != nil {
		return err
	}

	compiler := c.newCompiler()
	opts := piptools.CompileOptions{
		Header:    requirements.ModelinesHeader,
		ExtraArgs: append(append([]string{}, c.Config.CompileArgs...), extraArgs...),
	}

	for _, tag := range sorted {
		src := c.Config.TagSource(tag)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return errors.New(errors.ErrCodeFileNotFound, "no source file for tag %s: %s", tag, src)
		}

		dest := c.Config.TagBuild(tag)
		prog := newProgress(c.Logger)
		if err := compiler.Compile(ctx, src, dest, opts); err != nil {
			return err
		}
		prog.done("Compiled " + tag)
		printFile(dest)
	}
	return nil
}
