package requirements

import (
	"regexp"
	"strings"
)

// Specifier is a single requirement entry in a tag source file.
//
// Exactly three concrete types implement it: [Plain], [URL], and [Editable].
// Code dispatching on a Specifier should type-switch over those three.
type Specifier interface {
	// Name returns the declared project name. It is empty for URL and
	// editable forms that carry no #egg= fragment.
	Name() string

	// Editable reports whether the entry installs in editable mode.
	Editable() bool

	// String renders the canonical requirement line.
	String() string
}

// Constraint is a single version comparison clause, e.g. ">=2.0".
type Constraint struct {
	Op      string // one of ==, ===, ~=, !=, <=, >=, <, >
	Version string
}

func (c Constraint) String() string { return c.Op + c.Version }

// Plain is a named requirement: name[extras]constraints; markers.
type Plain struct {
	Dist        string       // project name as written (pre-normalization)
	Extras      []string     // optional extras, e.g. [security,socks]
	Constraints []Constraint // comma-joined version clauses
	Markers     string       // environment markers after ";", verbatim
}

func (p *Plain) Name() string   { return p.Dist }
func (p *Plain) Editable() bool { return false }

func (p *Plain) String() string {
	var b strings.Builder
	b.WriteString(p.Dist)
	if len(p.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(p.Extras, ","))
		b.WriteString("]")
	}
	for i, c := range p.Constraints {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(c.String())
	}
	if p.Markers != "" {
		b.WriteString(" ; ")
		b.WriteString(p.Markers)
	}
	return b.String()
}

// Pinned reports whether the requirement is pinned to an exact version.
func (p *Plain) Pinned() bool {
	return len(p.Constraints) == 1 &&
		(p.Constraints[0].Op == "==" || p.Constraints[0].Op == "===")
}

// URL is a direct URL requirement, e.g. an sdist or VCS link. The project
// name, when present, comes from the #egg= fragment.
type URL struct {
	Location string // full URL, fragment included, verbatim
	Egg      string // project name from #egg=, may be empty
}

func (u *URL) Name() string   { return u.Egg }
func (u *URL) Editable() bool { return false }

func (u *URL) String() string {
	if u.Egg != "" && !strings.Contains(u.Location, "#") {
		return u.Location + "#egg=" + u.Egg
	}
	return u.Location
}

// Editable is a "-e" requirement: a local path or VCS URL installed in
// editable mode.
type Editable struct {
	Target string // local path or VCS URL, fragment included, verbatim
	Egg    string // project name from #egg=, may be empty
}

func (e *Editable) Name() string   { return e.Egg }
func (e *Editable) Editable() bool { return true }

func (e *Editable) String() string {
	if e.Egg != "" && !strings.Contains(e.Target, "#") {
		return "-e " + e.Target + "#egg=" + e.Egg
	}
	return "-e " + e.Target
}

var nameFoldRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a project name per PEP 503: lowercase, with
// runs of ".", "-", and "_" folded to a single "-". Unrelated names remain
// distinct; only separator and case variants collapse.
func NormalizeName(name string) string {
	return strings.ToLower(nameFoldRE.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// SamePackage reports whether two specifiers address the same logical
// package. Specifiers without a resolvable name never match anything.
func SamePackage(a, b Specifier) bool {
	an, bn := NormalizeName(a.Name()), NormalizeName(b.Name())
	return an != "" && an == bn
}
