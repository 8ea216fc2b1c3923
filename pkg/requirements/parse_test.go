package requirements

import (
	"testing"

	"github.com/darvid/reqwire/pkg/errors"
)

func TestParse_Plain(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string // canonical rendering
	}{
		{"bare name", "requests", "requests"},
		{"pinned", "requests==2.20.0", "requests==2.20.0"},
		{"minimum", "requests>=2.0", "requests>=2.0"},
		{"range", "requests>=2.0,<3.0", "requests>=2.0,<3.0"},
		{"compatible release", "Flask~=1.0", "Flask~=1.0"},
		{"extras", "requests[security,socks]>=2.0", "requests[security,socks]>=2.0"},
		{"markers", "pywin32>=1.0 ; sys_platform == 'win32'", "pywin32>=1.0 ; sys_platform == 'win32'"},
		{"whitespace", "  requests >= 2.0  ", "requests>=2.0"},
		{"dotted name", "zope.interface", "zope.interface"},
		{"arbitrary equality", "pkg===1.0+local", "pkg===1.0+local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.line, err)
			}
			if _, ok := spec.(*Plain); !ok {
				t.Fatalf("Parse(%q) = %T, want *Plain", tt.line, spec)
			}
			if got := spec.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Editable(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantTarget string
		wantEgg    string
	}{
		{"vcs with egg", "-e git+https://github.com/darvid/reqwire.git@master#egg=reqwire",
			"git+https://github.com/darvid/reqwire.git@master#egg=reqwire", "reqwire"},
		{"local path", "-e .", ".", ""},
		{"relative path", "-e ./vendored/thing", "./vendored/thing", ""},
		{"vcs without egg", "-e git+https://github.com/pallets/flask.git",
			"git+https://github.com/pallets/flask.git", ""},
		{"subdirectory after egg", "-e git+https://example.com/repo.git#egg=mylib&subdirectory=sub",
			"git+https://example.com/repo.git#egg=mylib&subdirectory=sub", "mylib"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.line, err)
			}
			e, ok := spec.(*Editable)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want *Editable", tt.line, spec)
			}
			if e.Target != tt.wantTarget {
				t.Errorf("Target = %q, want %q", e.Target, tt.wantTarget)
			}
			if e.Egg != tt.wantEgg {
				t.Errorf("Egg = %q, want %q", e.Egg, tt.wantEgg)
			}
			if !e.Editable() {
				t.Error("Editable() = false, want true")
			}
		})
	}
}

func TestParse_URL(t *testing.T) {
	spec, err := Parse("https://files.example.com/dists/foo-1.0.tar.gz#egg=foo")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	u, ok := spec.(*URL)
	if !ok {
		t.Fatalf("got %T, want *URL", spec)
	}
	if u.Egg != "foo" {
		t.Errorf("Egg = %q, want %q", u.Egg, "foo")
	}
	if u.Location != "https://files.example.com/dists/foo-1.0.tar.gz#egg=foo" {
		t.Errorf("Location = %q", u.Location)
	}
	if u.Name() != "foo" {
		t.Errorf("Name() = %q, want %q", u.Name(), "foo")
	}
}

// Fragment text after the egg value carries install options pip needs; the
// parser must hand it back byte for byte.
func TestParse_FragmentRoundTrip(t *testing.T) {
	tests := []string{
		"git+https://example.com/repo.git#egg=mylib&subdirectory=sub",
		"-e git+https://example.com/repo.git#egg=mylib&subdirectory=sub",
		"https://example.com/dists/foo.tar.gz#sha256=abc123&egg=foo",
		"-e git+ssh://git@example.com/owner/repo.git@v1.2#egg=repo",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			spec, err := Parse(line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", line, err)
			}
			if got := spec.String(); got != line {
				t.Errorf("round trip lost data: %q -> %q", line, got)
			}
		})
	}
}

func TestGuessName(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"git+https://github.com/darvid/reqwire.git@master", "reqwire"},
		{"git+https://github.com/pallets/flask.git", "flask"},
		{"git+ssh://git@example.com/owner/repo.git", "repo"},
		{"./pkgs/mylib", "mylib"},
		{"../sibling", "sibling"},
		{"https://example.com/dists/foo.tar.gz#egg=ignored", "foo.tar.gz"},
		{".", ""},
		{"..", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := GuessName(tt.target); got != tt.want {
				t.Errorf("GuessName(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"bad constraint", "requests=>2.0"},
		{"garbage", "??!!"},
		{"editable without target", "-e"},
		{"leading separator", "-not-a-package"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.line)
			}
			if !errors.Is(err, errors.ErrCodeInvalidSpecifier) {
				t.Errorf("error code = %v, want INVALID_SPECIFIER", errors.GetCode(err))
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Flask", "flask"},
		{"flask", "flask"},
		{"flask_if-you.squint", "flask-if-you-squint"},
		{"zope.interface", "zope-interface"},
		{"some__pkg--name", "some-pkg-name"},
		{"UPPER_CASE", "upper-case"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSamePackage(t *testing.T) {
	a, _ := Parse("Flask>=1.0")
	b, _ := Parse("flask==2.0.0")
	c, _ := Parse("requests")
	if !SamePackage(a, b) {
		t.Error("Flask and flask should be the same package")
	}
	if SamePackage(a, c) {
		t.Error("Flask and requests must remain distinct")
	}

	// Nameless specifiers never match anything, including each other.
	e1, _ := Parse("-e git+https://example.com/a.git")
	e2, _ := Parse("-e git+https://example.com/b.git")
	if SamePackage(e1, e2) {
		t.Error("nameless editables must not be considered the same package")
	}
}
