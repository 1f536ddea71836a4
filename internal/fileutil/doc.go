// Package fileutil provides the single directory traversal primitive shared by
// workspace search and folder expansion.
//
// # Purpose
//
// Walk enumerates a workspace subtree depth-first and yields models.PathEntry
// values lazily through an iter.Seq. Callers stop early by breaking out of
// their range loop; no goroutines are started and no results are buffered.
//
// # Exclusion Pruning
//
// Every directory is tested against the exclusion RuleSet before it is read.
// An excluded directory is never passed to FS.ReadDir, so rules such as
// "node_modules" bound the I/O of a walk, not only its output. A directory
// whose every child is excluded ("**/node_modules/**") is emitted as a folder
// when folders were requested but is not read either.
//
// # Error Tolerance
//
// A ReadDir failure (permission denied, directory removed mid-walk) ends that
// subtree only. The failure is reported through WalkOptions.OnError and the
// walk continues with the remaining siblings.
//
// # Ordering
//
// Entries come out in the order FS.ReadDir returns them. OSFS returns names
// sorted, but consumers that need a display order sort themselves.
//
// # Snapshot Semantics
//
// The root, start path and RuleSet are captured when Walk is called. A RuleSet
// is immutable once compiled, so settings edits made during a walk cannot leak
// into it.
//
// # Thread Safety
//
// Each returned sequence is independent and restartable; ranging over it twice
// performs two walks.
package fileutil
