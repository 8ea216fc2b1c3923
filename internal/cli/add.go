package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darvid/reqwire/pkg/errors"
	"github.com/darvid/reqwire/pkg/pypi"
	"github.com/darvid/reqwire/pkg/requirements"
	"github.com/darvid/reqwire/pkg/scaffold"
)

// addOpts holds the command-line flags for the add command.
type addOpts struct {
	build           bool
	editables       []string
	tags            []string
	install         bool
	pre             bool
	resolveNames    bool
	resolveVersions bool
	force           bool
}

// addCommand creates the add command.
//
// The invocation is batch-or-nothing: every specifier is parsed and resolved
// against the package index before any tag file is touched, so a typo in one
// argument leaves the whole tree unchanged.
func (c *CLI) addCommand() *cobra.Command {
	opts := addOpts{
		install:         true,
		resolveNames:    true,
		resolveVersions: true,
	}

	cmd := &cobra.Command{
		Use:   "add [flags] SPECIFIER...",
		Short: "Add packages to tagged requirement source files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(opts.editables) == 0 {
				return fmt.Errorf("nothing to add: pass a specifier or -e")
			}
			return c.runAdd(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.build, "build", "b", false, "build lock files for the touched tags")
	cmd.Flags().StringArrayVarP(&opts.editables, "editable", "e", nil, "editable requirement (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.tags, "tag", "t", nil, "target tag (repeatable; default main)")
	cmd.Flags().BoolVar(&opts.install, "install", opts.install, "install the packages with pip")
	cmd.Flags().BoolVar(&opts.pre, "pre", false, "allow prerelease versions")
	cmd.Flags().BoolVar(&opts.resolveNames, "resolve-canonical-names", opts.resolveNames, "resolve canonical project names against the index")
	cmd.Flags().BoolVar(&opts.resolveVersions, "resolve-versions", opts.resolveVersions, "pin unconstrained specifiers to the latest version")
	cmd.Flags().BoolVar(&opts.force, "force", false, "replace editable entries with plain specifiers")

	return cmd
}

func (c *CLI) runAdd(ctx context.Context, args []string, opts *addOpts) error {
	specs, err := parseSpecifiers(args, opts.editables)
	if err != nil {
		return err
	}

	tags := opts.tags
	if len(tags) == 0 {
		tags = []string{"main"}
	}

	if opts.resolveNames || opts.resolveVersions {
		if err := c.resolveSpecs(ctx, specs, tags, opts); err != nil {
			return err
		}
	}

	// Resolution is done; from here on tag files change.
	for _, tag := range tags {
		path := c.Config.TagSource(tag)

		// Each tag gets its own parse so per-file merges (extras unions)
		// never bleed across files.
		fresh, err := reparse(specs)
		if err != nil {
			return err
		}

		results, err := scaffold.Extend(path, fresh, opts.force)
		if err != nil {
			return err
		}
		for _, r := range results {
			switch r.Outcome {
			case requirements.Added:
				printSuccess("Added %s to %s", r.Spec.String(), tag)
			case requirements.Replaced:
				printSuccess("Updated %s in %s", r.Spec.String(), tag)
			case requirements.Skipped:
				printWarning("%s is editable in %s, left untouched (use --force to replace)", r.Spec.Name(), tag)
			}
		}
	}

	if opts.install {
		if err := c.installSpecs(ctx, specs, opts.pre); err != nil {
			return err
		}
	}

	if opts.build {
		return c.compileTags(ctx, tags, nil)
	}
	return nil
}

// parseSpecifiers parses the positional and -e arguments, failing on the
// first malformed one.
func parseSpecifiers(args, editables []string) ([]requirements.Specifier, error) {
	var specs []requirements.Specifier
	for _, arg := range args {
		spec, err := requirements.Parse(arg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, e := range editables {
		spec, err := requirements.Parse("-e " + e)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// placeholderName stands in for a project name that could not be derived
// from an egg-less editable or URL specifier.
const placeholderName = "unknown"

// resolveSpecs canonicalizes names and pins unconstrained plain specifiers
// to the latest released version. Index URLs found in the target tag files
// are consulted in addition to the public index.
//
// Egg-less editables and URLs get their name filled in here: guessed from
// the target, confirmed against the index when possible, with a placeholder
// as the last resort. A name lookup failure for those is a warning, not an
// error, since the install target itself is still usable.
func (c *CLI) resolveSpecs(ctx context.Context, specs []requirements.Specifier, tags []string, opts *addOpts) error {
	paths := make([]string, 0, len(tags))
	for _, tag := range tags {
		paths = append(paths, c.Config.TagSource(tag))
	}
	resolver := c.newResolver(scaffold.IndexURLs(paths...))

	for _, spec := range specs {
		switch s := spec.(type) {
		case *requirements.Plain:
			if err := c.resolvePlain(ctx, resolver, s, opts); err != nil {
				return err
			}
		case *requirements.Editable:
			if s.Egg == "" {
				s.Egg = c.deferredName(ctx, resolver, s.Target, opts)
			}
		case *requirements.URL:
			if s.Egg == "" {
				s.Egg = c.deferredName(ctx, resolver, s.Location, opts)
			}
		}
	}
	return nil
}

func (c *CLI) resolvePlain(ctx context.Context, resolver pypi.Resolver, plain *requirements.Plain, opts *addOpts) error {
	s := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %s...", plain.Dist))
	s.Start()
	canonical, latest, err := resolver.Resolve(ctx, plain.Dist, opts.pre)
	if err != nil {
		s.StopWithError(fmt.Sprintf("Could not resolve %s", plain.Dist))
		if pypiNotFound(err) {
			return errors.Wrap(errors.ErrCodePackageNotFound, err, "no such package: %s", plain.Dist)
		}
		if stderrors.Is(err, pypi.ErrRateLimited) {
			return errors.Wrap(errors.ErrCodeRateLimited, err, "looking up %s", plain.Dist)
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "looking up %s", plain.Dist)
	}
	s.Stop()

	if opts.resolveNames && canonical != "" {
		plain.Dist = canonical
	}
	if opts.resolveVersions && len(plain.Constraints) == 0 && latest != "" {
		plain.Constraints = []requirements.Constraint{{Op: "==", Version: latest}}
	}
	c.Logger.Debug("resolved", "package", plain.Dist, "latest", latest)
	return nil
}

// deferredName extracts a project name for a specifier that carried no
// #egg= fragment.
func (c *CLI) deferredName(ctx context.Context, resolver pypi.Resolver, target string, opts *addOpts) string {
	guess := requirements.GuessName(target)
	if guess == "" {
		printWarning("Cannot determine a project name for %s, using %q", target, placeholderName)
		return placeholderName
	}
	if !opts.resolveNames {
		return guess
	}
	canonical, _, err := resolver.Resolve(ctx, guess, opts.pre)
	if err != nil || canonical == "" {
		printWarning("Could not resolve a canonical name for %s, using %q", target, guess)
		return guess
	}
	return canonical
}

// installSpecs shells out to pip install for everything just added.
func (c *CLI) installSpecs(ctx context.Context, specs []requirements.Specifier, pre bool) error {
	var args []string
	for _, spec := range specs {
		if e, ok := spec.(*requirements.Editable); ok {
			args = append(args, "-e", e.Target)
			continue
		}
		args = append(args, spec.String())
	}

	prog := newProgress(c.Logger)
	if err := c.newInstaller().Install(ctx, args, pre); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Installed %d package(s)", len(specs)))
	return nil
}

// reparse round-trips specifiers through their string form, producing
// independent copies.
func reparse(specs []requirements.Specifier) ([]requirements.Specifier, error) {
	out := make([]requirements.Specifier, 0, len(specs))
	for _, spec := range specs {
		fresh, err := requirements.Parse(spec.String())
		if err != nil {
			return nil, err
		}
		out = append(out, fresh)
	}
	return out, nil
}

func pypiNotFound(err error) bool {
	return stderrors.Is(err, pypi.ErrNotFound)
}
