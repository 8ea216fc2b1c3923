package requirements

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darvid/reqwire/pkg/errors"
)

// ModelinesHeader is prepended to every file reqwire writes, marking it for
// editors as a pip requirements file.
const ModelinesHeader = "# -*- mode: pip-requirements -*-\n# vim: set ft=requirements:\n"

// Header holds the directives that precede specifier lines in a source file.
type Header struct {
	IndexURL       string   // --index-url
	ExtraIndexURLs []string // --extra-index-url, in order
	Constraints    []string // -c references, in order
	References     []string // -r references, in order
}

// render produces the textual header: modelines, a generation timestamp,
// nested file references, then index directives.
func (h Header) render(now time.Time) string {
	var b strings.Builder
	b.WriteString(ModelinesHeader)
	fmt.Fprintf(&b, "# Generated by reqwire on %s\n", now.Format(time.ANSIC))
	for _, c := range h.Constraints {
		fmt.Fprintf(&b, "-c %s\n", c)
	}
	for _, r := range h.References {
		fmt.Fprintf(&b, "-r %s\n", r)
	}
	if h.IndexURL != "" {
		fmt.Fprintf(&b, "--index-url %s\n", h.IndexURL)
	}
	for _, u := range h.ExtraIndexURLs {
		fmt.Fprintf(&b, "--extra-index-url %s\n", u)
	}
	return b.String()
}

// Line is one body line of a source file: either a specifier, or a verbatim
// comment/blank line.
type Line struct {
	Spec Specifier // nil for comment and blank lines
	Raw  string    // verbatim text for comment/blank lines
}

// File is an ordered, in-memory representation of a tag source file.
//
// Header directives are parsed into [Header] and regenerated on save; body
// comments and blank lines are preserved verbatim in place. Specifier order
// is significant and maintained by [Merge] and [Remove].
type File struct {
	Path   string
	Header Header
	Lines  []Line

	// now supplies the header timestamp; overridable in tests.
	now func() time.Time
}

// NewFile creates an empty File for path. The file need not exist on disk.
func NewFile(path string) *File {
	return &File{Path: path, now: time.Now}
}

// Load reads and parses a tag source file.
//
// Directive lines anywhere in the file populate the Header. Comments before
// the first specifier are treated as header comments and dropped (the header
// is regenerated on save); later comments and blank lines are preserved
// verbatim. Specifier lines that fail to parse abort the load.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no such requirements file: %s", path)
		}
		return nil, err
	}
	defer fh.Close()

	f := NewFile(path)
	sawSpec := false

	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			if sawSpec {
				f.Lines = append(f.Lines, Line{Raw: line})
			}
		case strings.HasPrefix(trimmed, "--index-url"):
			f.Header.IndexURL = directiveValue(trimmed, "--index-url")
		case strings.HasPrefix(trimmed, "--extra-index-url"):
			f.Header.ExtraIndexURLs = append(f.Header.ExtraIndexURLs, directiveValue(trimmed, "--extra-index-url"))
		case strings.HasPrefix(trimmed, "-c ") || strings.HasPrefix(trimmed, "-c=") || strings.HasPrefix(trimmed, "--constraint"):
			f.Header.Constraints = append(f.Header.Constraints, directiveValue(trimmed, "-c", "--constraint"))
		case strings.HasPrefix(trimmed, "-r ") || strings.HasPrefix(trimmed, "-r=") || strings.HasPrefix(trimmed, "--requirement"):
			f.Header.References = append(f.Header.References, directiveValue(trimmed, "-r", "--requirement"))
		default:
			spec, err := Parse(trimmed)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidSpecifier, err, "%s: bad line %q", path, trimmed)
			}
			f.Lines = append(f.Lines, Line{Spec: spec})
			sawSpec = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadOrNew is like [Load] but returns an empty File when path does not
// exist yet.
func LoadOrNew(path string) (*File, error) {
	f, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return NewFile(path), nil
	}
	return f, err
}

func directiveValue(line string, prefixes ...string) string {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(line, p); ok {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "="))
		}
	}
	return ""
}

// Specifiers returns the specifier entries in order, skipping comments.
func (f *File) Specifiers() []Specifier {
	var specs []Specifier
	for _, line := range f.Lines {
		if line.Spec != nil {
			specs = append(specs, line.Spec)
		}
	}
	return specs
}

// Save writes the file atomically: the content goes to a temporary file in
// the same directory, which is then renamed over the target. A crash
// mid-write never corrupts a previously valid file.
//
// The parent directory must already exist; a missing directory is reported
// with code [errors.ErrCodeMissingDirectory] rather than silently created.
func (f *File) Save() error {
	dir := filepath.Dir(f.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return errors.New(errors.ErrCodeMissingDirectory,
			"directory %s does not exist (run `reqwire init` first)", dir)
	}

	now := time.Now
	if f.now != nil {
		now = f.now
	}

	var b strings.Builder
	b.WriteString(f.Header.render(now()))
	for _, line := range f.Lines {
		if line.Spec != nil {
			b.WriteString(line.Spec.String())
		} else {
			b.WriteString(line.Raw)
		}
		b.WriteString("\n")
	}

	tmp, err := os.CreateTemp(dir, ".reqwire-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
