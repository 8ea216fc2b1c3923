package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darvid/reqwire/pkg/config"
	"github.com/darvid/reqwire/pkg/scaffold"
)

// initOpts holds the command-line flags for the init command.
type initOpts struct {
	force          bool
	tags           []string
	indexURL       string
	extraIndexURLs []string
}

// initCommand creates the init command for scaffolding a requirements tree.
//
// Index URLs default to the conventional pip environment variables
// (PIP_INDEX_URL, PIP_EXTRA_INDEX_URL) when the flags are not given.
func (c *CLI) initCommand() *cobra.Command {
	var opts initOpts

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a requirements directory tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.indexURL == "" {
				opts.indexURL = os.Getenv(config.EnvIndexURL)
			}
			if len(opts.extraIndexURLs) == 0 {
				if extra := os.Getenv(config.EnvExtraIndexURL); extra != "" {
					opts.extraIndexURLs = strings.Fields(extra)
				}
			}

			err := scaffold.Init(c.Config, scaffold.InitOptions{
				Tags:           opts.tags,
				IndexURL:       opts.indexURL,
				ExtraIndexURLs: opts.extraIndexURLs,
				Force:          opts.force,
			})
			if err != nil {
				return err
			}

			tags := opts.tags
			if len(tags) == 0 {
				tags = scaffold.DefaultTags
			}
			printSuccess("Initialized %s", c.Config.BaseDir)
			for _, tag := range tags {
				printFile(c.Config.TagSource(tag))
			}
			printNextStep("Add a package", "reqwire add requests")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "re-initialize an existing tree")
	cmd.Flags().StringArrayVarP(&opts.tags, "tag", "t", nil, "tag to seed (repeatable; default docs, main, qa, test)")
	cmd.Flags().StringVarP(&opts.indexURL, "index-url", "i", "", "primary package index URL")
	cmd.Flags().StringArrayVar(&opts.extraIndexURLs, "extra-index-url", nil, "additional package index URL (repeatable)")

	return cmd
}
