// Package requirements models Python requirement source files.
//
// A requirement source file (conventionally *.in) holds one specifier per
// line, preceded by header directives (--index-url, --extra-index-url, and
// nested -c/-r references). This package provides:
//
//   - The [Specifier] variants: [Plain] for name[extras]constraint lines,
//     [URL] for direct URL references, and [Editable] for -e entries.
//   - [Parse], turning a raw line into a Specifier.
//   - [File], an ordered in-memory representation of a source file with
//     atomic [File.Save].
//   - [Merge] and [Remove], the operations that keep a file free of
//     duplicate logical packages while preserving line order.
//
// Package identity follows PEP 503: names are compared after lowercasing
// and folding runs of ".", "-", and "_" to a single "-", so "Flask",
// "flask", and "FLASK_if-you.squint"-style variants of a name all address
// the same logical entry.
package requirements
