package requirements

import (
	"regexp"
	"strings"

	"github.com/darvid/reqwire/pkg/errors"
)

var (
	plainRE  = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)
	clauseRE = regexp.MustCompile(`^(===|==|~=|!=|<=|>=|<|>)\s*([A-Za-z0-9._+!*-]+)$`)
	eggRE    = regexp.MustCompile(`[#&]egg=([A-Za-z0-9._-]+)`)
)

// Parse turns a raw requirement line into a [Specifier].
//
// Three grammars are recognized, in order:
//
//   - editable:  -e <path-or-vcs-url>[#egg=name]
//   - URL:       <scheme>://…[#egg=name]  (including vcs+scheme forms)
//   - plain:     name[extras]<constraints>[; markers]
//
// Parsing is deterministic and side-effect free. Malformed lines return an
// error with code [errors.ErrCodeInvalidSpecifier].
func Parse(line string) (Specifier, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidSpecifier, "empty specifier")
	}

	if rest, ok := strings.CutPrefix(s, "-e"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '=') {
		target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "="))
		if target == "" {
			return nil, errors.New(errors.ErrCodeInvalidSpecifier, "editable specifier missing target")
		}
		return &Editable{Target: target, Egg: extractEgg(target)}, nil
	}

	if strings.Contains(s, "://") {
		return &URL{Location: s, Egg: extractEgg(s)}, nil
	}

	// Split off environment markers first; everything after the first ";"
	// is kept verbatim.
	spec, markers, _ := strings.Cut(s, ";")
	spec = strings.TrimSpace(spec)
	markers = strings.TrimSpace(markers)

	m := plainRE.FindStringSubmatch(spec)
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidSpecifier, "cannot parse specifier %q", line)
	}

	p := &Plain{Dist: m[1], Markers: markers}
	if m[2] != "" {
		for _, extra := range strings.Split(strings.Trim(m[2], "[]"), ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				p.Extras = append(p.Extras, extra)
			}
		}
	}

	if rest := strings.TrimSpace(m[3]); rest != "" {
		for _, clause := range strings.Split(rest, ",") {
			cm := clauseRE.FindStringSubmatch(strings.TrimSpace(clause))
			if cm == nil {
				return nil, errors.New(errors.ErrCodeInvalidSpecifier,
					"invalid version constraint %q in %q", clause, line)
			}
			p.Constraints = append(p.Constraints, Constraint{Op: cm[1], Version: cm[2]})
		}
	}

	return p, nil
}

// extractEgg reads the project name out of an egg fragment. The fragment
// stays part of the URL or path; pip understands constructs like
// #egg=name&subdirectory=sub, so the raw form must survive a save/load
// round-trip untouched.
func extractEgg(s string) string {
	m := eggRE.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// GuessName derives a likely project name from a VCS URL or local path: the
// last path segment, stripped of any @revision suffix and a trailing ".git".
// It returns "" when no plausible name can be derived (e.g. "-e .").
func GuessName(target string) string {
	s := target
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	base := s[strings.LastIndex(s, "/")+1:]
	base, _, _ = strings.Cut(base, "@")
	base = strings.TrimSuffix(base, ".git")
	if m := plainRE.FindStringSubmatch(base); m == nil || m[1] != base {
		return ""
	}
	return base
}
