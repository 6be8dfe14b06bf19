// Package formstate holds the mutable value tree behind a form.
//
// A Store owns nested values keyed by field paths, hands out immutable
// snapshots for resolution passes, keeps a stable key per array entry and
// notifies listeners after each write.
package formstate
