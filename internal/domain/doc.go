// Package domain contains the core business entities and domain logic of the
// task tracker. It is independent of any storage or delivery mechanism: the
// Task entity enforces its own invariants (non-empty title, one-way
// completion, ordered timestamps) regardless of who persists it.
package domain
