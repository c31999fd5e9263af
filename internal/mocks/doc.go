// Package mocks provides hand-written mock implementations of the
// application's store and service interfaces for use in tests.
//
// Each mock follows the same pattern: optional function fields override
// behavior per test, and a small in-memory default implementation backs
// the common cases so simple tests need no setup beyond the constructor.
package mocks
