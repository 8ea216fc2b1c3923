package pypi

import (
	"regexp"
	"strconv"
	"strings"
)

// Version is a parsed PEP 440 version. Local version labels (after "+") are
// ignored for ordering purposes.
type Version struct {
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    int // -1 when absent
	Dev     int // -1 when absent
}

// PreRelease is the pre-release segment of a version, e.g. "rc1".
type PreRelease struct {
	Label string // "a", "b", or "rc" after normalization
	N     int
}

var versionRE = regexp.MustCompile(`(?i)^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d*))?` +
	`(?:[-_.]?(post|rev|r)[-_.]?(\d*)|-(\d+))?` +
	`(?:[-_.]?(dev)[-_.]?(\d*))?` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

var preLabels = map[string]string{
	"a": "a", "alpha": "a",
	"b": "b", "beta": "b",
	"c": "rc", "rc": "rc", "pre": "rc", "preview": "rc",
}

// ParseVersion parses s as a PEP 440 version. It returns ok=false for
// strings that do not follow the scheme (legacy versions), which callers
// should skip rather than attempt to order.
func ParseVersion(s string) (Version, bool) {
	m := versionRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, false
	}

	v := Version{Post: -1, Dev: -1}
	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, _ := strconv.Atoi(part)
		v.Release = append(v.Release, n)
	}
	if m[3] != "" {
		v.Pre = &PreRelease{Label: preLabels[strings.ToLower(m[3])]}
		if m[4] != "" {
			v.Pre.N, _ = strconv.Atoi(m[4])
		}
	}
	switch {
	case m[5] != "":
		v.Post = 0
		if m[6] != "" {
			v.Post, _ = strconv.Atoi(m[6])
		}
	case m[7] != "":
		// Implicit post release, e.g. "1.0-1".
		v.Post, _ = strconv.Atoi(m[7])
	}
	if m[8] != "" {
		v.Dev = 0
		if m[9] != "" {
			v.Dev, _ = strconv.Atoi(m[9])
		}
	}
	return v, true
}

// IsPrerelease reports whether the version is a pre-release or developmental
// release per PEP 440.
func (v Version) IsPrerelease() bool {
	return v.Pre != nil || v.Dev >= 0
}

// Compare returns -1, 0, or 1 if v sorts before, equal to, or after o.
func (v Version) Compare(o Version) int {
	if v.Epoch != o.Epoch {
		return cmp(v.Epoch, o.Epoch)
	}
	if c := compareRelease(v.Release, o.Release); c != 0 {
		return c
	}
	if c := cmp(v.phase(), o.phase()); c != 0 {
		return c
	}
	if v.Pre != nil && o.Pre != nil {
		if c := strings.Compare(v.Pre.Label, o.Pre.Label); c != 0 {
			return c
		}
		if c := cmp(v.Pre.N, o.Pre.N); c != 0 {
			return c
		}
	}
	if v.Post != o.Post {
		return cmp(v.Post, o.Post)
	}
	// A dev release sorts before the corresponding non-dev release.
	switch {
	case v.Dev < 0 && o.Dev < 0:
		return 0
	case v.Dev < 0:
		return 1
	case o.Dev < 0:
		return -1
	default:
		return cmp(v.Dev, o.Dev)
	}
}

// phase orders the major segments: dev-only < pre < final <= post.
// Post ordering is handled by the Post field itself (absent = -1).
func (v Version) phase() int {
	switch {
	case v.Pre != nil:
		return -1
	case v.Dev >= 0 && v.Post < 0:
		return -2
	default:
		return 0
	}
}

func compareRelease(a, b []int) int {
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return cmp(av, bv)
		}
	}
	return 0
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
