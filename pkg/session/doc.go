// Package session persists the flow session record in a storage origin.
//
// A Store reads and writes a single record under a fixed key. Reads are best-effort:
// a missing, corrupt or unreachable record reads as a fresh session rather than an error,
// so a broken storage origin never blocks a page from loading.
package session
