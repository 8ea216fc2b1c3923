// Package scaffold creates and maintains the requirements tree: the base
// directory, its source and build subdirectories, and the per-tag source
// files inside them.
package scaffold

import (
	"os"

	"github.com/darvid/reqwire/pkg/config"
	"github.com/darvid/reqwire/pkg/errors"
	"github.com/darvid/reqwire/pkg/requirements"
)

// DefaultTags are the environments seeded by init when none are given.
var DefaultTags = []string{"docs", "main", "qa", "test"}

// InitOptions controls [Init].
type InitOptions struct {
	Tags           []string
	IndexURL       string
	ExtraIndexURLs []string
	// Force re-initializes an existing tree, overwriting tag files.
	Force bool
}

// Init scaffolds the requirements tree: base, source, and build directories,
// plus one seeded source file per tag. An existing source directory is
// refused without Force.
func Init(cfg *config.Config, opts InitOptions) error {
	tags := opts.Tags
	if len(tags) == 0 {
		tags = DefaultTags
	}

	if _, err := os.Stat(cfg.SourcePath()); err == nil && !opts.Force {
		return errors.New(errors.ErrCodeAlreadyInitialized,
			"%s already exists (use --force to re-initialize)", cfg.SourcePath())
	}

	for _, dir := range []string{cfg.BaseDir, cfg.SourcePath(), cfg.BuildPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	header := requirements.Header{
		IndexURL:       opts.IndexURL,
		ExtraIndexURLs: opts.ExtraIndexURLs,
	}
	for _, tag := range tags {
		f := requirements.NewFile(cfg.TagSource(tag))
		f.Header = header
		if err := f.Save(); err != nil {
			return err
		}
	}
	return nil
}

// ExtendResult records what happened to one specifier during [Extend].
type ExtendResult struct {
	Spec    requirements.Specifier
	Outcome requirements.MergeOutcome
}

// Extend merges specifiers into the source file at path, creating the file
// if it does not exist yet (its parent directory must). The file is saved
// once, after all merges.
func Extend(path string, specs []requirements.Specifier, force bool) ([]ExtendResult, error) {
	f, err := requirements.LoadOrNew(path)
	if err != nil {
		return nil, err
	}

	results := make([]ExtendResult, 0, len(specs))
	for _, spec := range specs {
		outcome := requirements.Merge(f, spec, requirements.MergeOptions{Force: force})
		results = append(results, ExtendResult{Spec: spec, Outcome: outcome})
	}

	if err := f.Save(); err != nil {
		return nil, err
	}
	return results, nil
}

// Remove deletes every specifier whose normalized name matches one of names
// from the source file at path, and reports how many lines went away. The
// file is only rewritten when something matched.
func Remove(path string, names []string) (int, error) {
	f, err := requirements.Load(path)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		removed += requirements.Remove(f, name)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := f.Save(); err != nil {
		return 0, err
	}
	return removed, nil
}

// IndexURLs collects the index directives from the given source files, with
// the primary index first. Missing files are skipped.
func IndexURLs(paths ...string) []string {
	var urls []string
	seen := map[string]bool{}
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, path := range paths {
		f, err := requirements.Load(path)
		if err != nil {
			continue
		}
		add(f.Header.IndexURL)
		for _, u := range f.Header.ExtraIndexURLs {
			add(u)
		}
	}
	return urls
}
