package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darvid/reqwire/pkg/errors"
	"github.com/darvid/reqwire/pkg/requirements"
	"github.com/darvid/reqwire/pkg/scaffold"
)

// removeCommand creates the remove command.
//
// Arguments may be bare names or full specifiers; only the name part is
// matched, case- and separator-insensitively. A tag without a source file is
// a warning, an absent package a no-op.
func (c *CLI) removeCommand() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:     "remove [-t TAG]... SPECIFIER...",
		Aliases: []string{"rm"},
		Short:   "Remove packages from tagged requirement source files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := specifierNames(args)
			if err != nil {
				return err
			}

			if len(tags) == 0 {
				tags = []string{"main"}
			}

			for _, tag := range tags {
				path := c.Config.TagSource(tag)
				removed, err := scaffold.Remove(path, names)
				if errors.Is(err, errors.ErrCodeFileNotFound) {
					printWarning("No source file for tag %s (%s)", tag, path)
					continue
				}
				if err != nil {
					return err
				}

				if removed == 0 {
					printInfo("Nothing to remove from %s", tag)
					continue
				}
				printSuccess("Removed %d package(s) from %s", removed, tag)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "target tag (repeatable; default main)")

	return cmd
}

// specifierNames extracts the package name from each argument, accepting
// both bare names and full specifier syntax.
func specifierNames(args []string) ([]string, error) {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		spec, err := requirements.Parse(arg)
		if err != nil {
			return nil, err
		}
		if spec.Name() == "" {
			return nil, fmt.Errorf("cannot determine a package name from %q", arg)
		}
		names = append(names, spec.Name())
	}
	return names, nil
}
