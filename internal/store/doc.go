// Package store owns the paired physical log files for one scope and
// guarantees that every accepted entry ends up durably reflected, in
// the same logical position, in both of them.
//
// The pair is a coupled view of one append log, not two stores:
//
//   - packages.json — an ordered JSON array of records
//   - packages.toml — the same records as a sequence of [[package]] tables
//
// Writers may be unrelated short-lived processes (package-manager hooks,
// manual CLI invocations) racing with a long-lived downloads monitor, so
// every mutation runs under an exclusive advisory lock on a sentinel
// file colocated with the pair. The lock wait is bounded; exceeding it
// yields a retryable LOCK_TIMEOUT error rather than risking interleaved
// writers.
//
// Each format is written via temp-file-then-rename, so a crash mid-write
// leaves the previous durable file untouched. If one format is found
// corrupted at read time the store treats it as stale and rewrites it
// from the other format on the next mutation, self-healing divergence
// without losing data from the valid source.
package store
