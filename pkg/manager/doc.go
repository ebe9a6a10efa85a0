// Package manager owns the live policy for a running process: loading legacy
// policy files through the bridge, hot-swapping the compiled engine policy
// atomically, and watching the source file for changes.
//
// Evaluation always runs against an immutable snapshot, so a reload never
// races an in-flight decision; the previous policy is closed only after the
// swap. A failed reload keeps the last good policy active.
package manager
