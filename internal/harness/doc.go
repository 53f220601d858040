// Package harness provides a deterministic scenario runner for store
// conformance tests.
//
// A Scenario scripts a sequence of actions against a freshly constructed
// store. The runner dispatches the steps in order and records a trace: one
// event per dispatch carrying a logical sequence number, the action type,
// and the state the dispatch produced. An extra leading event captures the
// state right after construction, so traces also pin down reducer
// initialization.
//
// Traces are compared against golden files with goldie. Determinism comes
// from three properties:
//   - the store's dispatch loop is synchronous and single-goroutine
//   - trace events are stamped by a logical clock, never wall-clock time
//   - trace serialization uses encoding/json, which orders map keys
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
