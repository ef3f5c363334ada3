// Package mocks provides hand-written in-memory implementations of the
// store and service interfaces for testing. Each mock keeps its state in
// maps guarded by a mutex and supports per-method function overrides for
// failure injection. WithTx returns the mock itself: transaction boundaries
// are exercised with sqlmock at the *sql.DB level, not here.
package mocks
