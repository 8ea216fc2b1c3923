// Package httputil provides HTTP client utilities: a file-backed response
// cache and retry logic with exponential backoff.
//
// The cache stores JSON-marshaled values keyed by SHA-256 hashes of cache
// keys, with TTL expiration based on file modification time. The retry
// helpers distinguish transient failures (wrapped in [RetryableError]) from
// permanent ones, retrying only the former.
package httputil
