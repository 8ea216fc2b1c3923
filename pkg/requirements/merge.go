package requirements

import "slices"

// MergeOutcome describes what [Merge] did with an incoming specifier.
type MergeOutcome int

const (
	// Added means the specifier was appended as a new entry.
	Added MergeOutcome = iota
	// Replaced means an existing entry for the same package was replaced
	// in place.
	Replaced
	// Skipped means an existing editable entry was left untouched.
	Skipped
)

// MergeOptions controls [Merge] policy.
type MergeOptions struct {
	// Force allows a plain specifier to replace an existing editable entry
	// for the same package. Without it, editable entries win and the
	// incoming plain specifier is skipped.
	Force bool
}

// Merge inserts incoming into f, keeping the body free of duplicate logical
// packages.
//
// If an entry with the same normalized name exists, it is replaced in place,
// so re-adds converge to the latest specifier without reordering the file.
// Extras from the replaced entry are unioned into the survivor. An existing
// editable entry is never overwritten by a plain re-add unless opts.Force is
// set. New packages are appended at the end of the body.
//
// Nameless specifiers (egg-less editables and URLs) are matched by their
// rendered line instead, so re-adding one is idempotent too.
func Merge(f *File, incoming Specifier, opts MergeOptions) MergeOutcome {
	key := NormalizeName(incoming.Name())
	match := -1
	if key != "" {
		for i, line := range f.Lines {
			if line.Spec != nil && NormalizeName(line.Spec.Name()) == key {
				match = i
				break
			}
		}
	} else {
		rendered := incoming.String()
		for i, line := range f.Lines {
			if line.Spec != nil && line.Spec.String() == rendered {
				match = i
				break
			}
		}
	}

	if match < 0 {
		f.Lines = append(f.Lines, Line{Spec: incoming})
		return Added
	}

	existing := f.Lines[match].Spec
	if existing.Editable() && !incoming.Editable() && !opts.Force {
		return Skipped
	}

	if ep, ok := existing.(*Plain); ok {
		if ip, ok := incoming.(*Plain); ok {
			ip.Extras = unionExtras(ep.Extras, ip.Extras)
		}
	}

	f.Lines[match].Spec = incoming
	f.dropDuplicates(key, match)
	return Replaced
}

// Remove deletes every entry whose normalized name matches name and returns
// the number of entries removed. An absent name is a no-op, not an error.
func Remove(f *File, name string) int {
	key := NormalizeName(name)
	if key == "" {
		return 0
	}
	removed := 0
	f.Lines = slices.DeleteFunc(f.Lines, func(l Line) bool {
		if l.Spec != nil && NormalizeName(l.Spec.Name()) == key {
			removed++
			return true
		}
		return false
	})
	return removed
}

// dropDuplicates removes any entries matching key after position keep,
// restoring the no-duplicate invariant for files that arrived dirty. An
// empty key would match every nameless entry, so it drops nothing.
func (f *File) dropDuplicates(key string, keep int) {
	if key == "" {
		return
	}
	i := 0
	f.Lines = slices.DeleteFunc(f.Lines, func(l Line) bool {
		idx := i
		i++
		return idx > keep && l.Spec != nil && NormalizeName(l.Spec.Name()) == key
	})
}

// unionExtras merges two extras lists, preserving the order of a and
// appending unseen entries of b.
func unionExtras(a, b []string) []string {
	if len(a) == 0 {
		return b
	}
	out := slices.Clone(a)
	for _, extra := range b {
		if !slices.Contains(out, extra) {
			out = append(out, extra)
		}
	}
	return out
}
