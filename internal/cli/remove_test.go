package cli

import (
	"testing"

	"github.com/darvid/reqwire/pkg/errors"
)

func TestRemove(t *testing.T) {
	c, base := testCLI(t)
	c.Resolver = &fakeResolver{}
	c.Installer = &fakeInstaller{}
	mustInit(t, c, base, "main")

	err := execute(t, c, base, "add", "requests==2.20.0", "flask",
		"--install=false", "--resolve-versions=false")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Normalized name matching: "Requests" removes "requests".
	if err := execute(t, c, base, "remove", "Requests"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	got := tagSpecifiers(t, c.Config.TagSource("main"))
	if len(got) != 1 || got[0] != "flask" {
		t.Errorf("specifiers = %v, want [flask]", got)
	}

	// Removing an absent package is a no-op, not an error.
	if err := execute(t, c, base, "remove", "requests"); err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
}

func TestRemove_MissingTagIsWarning(t *testing.T) {
	c, base := testCLI(t)
	mustInit(t, c, base, "main")

	if err := execute(t, c, base, "remove", "-t", "nonexistent", "requests"); err != nil {
		t.Fatalf("remove should warn, not fail: %v", err)
	}
}

func TestRemove_FullSpecifierArgument(t *testing.T) {
	c, base := testCLI(t)
	c.Resolver = &fakeResolver{}
	c.Installer = &fakeInstaller{}
	mustInit(t, c, base, "main")

	err := execute(t, c, base, "add", "requests==2.20.0",
		"--install=false", "--resolve-versions=false")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// The constraint part of the argument is ignored for matching.
	if err := execute(t, c, base, "remove", "requests>=1.0"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := tagSpecifiers(t, c.Config.TagSource("main")); len(got) != 0 {
		t.Errorf("specifiers = %v, want none", got)
	}
}

func TestRemove_BadSpecifier(t *testing.T) {
	c, base := testCLI(t)
	mustInit(t, c, base, "main")

	err := execute(t, c, base, "remove", "=>bogus")
	if !errors.Is(err, errors.ErrCodeInvalidSpecifier) {
		t.Fatalf("remove error = %v, want INVALID_SPECIFIER", err)
	}
}
