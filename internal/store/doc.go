// Package store provides SQLite-backed storage for jispell.
//
// Two tables:
//   - anchors: the frozen root anchor of each profile. AnchorStore adapts
//     one row to the anchor.Store capability.
//   - readings: an append-only log of spelled pitch samples, keyed by
//     session token and logical sequence number.
//
// # Ordering
//
// Readings are always returned ORDER BY seq ASC, id ASC. Timestamps are
// stored for display only; seq is the engine's logical clock and is what
// makes a replayed session identical to the original.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
