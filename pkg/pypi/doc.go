// Package pypi provides a client for the PyPI JSON API, used to resolve
// user-typed package names to their canonical registered spelling and to
// find the latest published version.
//
// Responses are cached in a file-backed HTTP cache ([httputil.Cache]) and
// transient failures are retried with exponential backoff. Version ordering
// follows PEP 440, so prereleases (alpha, beta, rc, dev) are excluded from
// "latest" unless explicitly requested.
package pypi
