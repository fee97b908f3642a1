// Package store provides SQLite-backed recording of simulation runs.
//
// A recording holds:
//   - Netlists: canonical save form keyed by content hash
//   - Runs: one row per `syncrim run`, pointing at its netlist
//   - Cycles: per-cycle snapshots with a state digest and probe readings
//
// # Ordering
//
// Runs are ordered by seq (a logical counter assigned on insert), never by
// wall time, so listings are identical across replays. Cycles are ordered
// by cycle number.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s on lock contention
//   - foreign_keys=ON: Cycles and runs must reference existing parents
//
// The simulation core never touches the store; only the CLI records.
package store
