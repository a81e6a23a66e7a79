// Package inmemory provides a concurrency-safe, slice-backed implementation
// of the [memory.Provider] interface that keeps a transcript in process memory.
// It is designed for single-process use cases where persistence across restarts is not required.
// The main entry point is [New].
package inmemory
