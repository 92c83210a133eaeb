// Package ratio implements the number-theoretic half of the spelling engine:
// reduced frequency ratios, their prime-exponent vectors (monzos), and the
// continued-fraction search that turns a measured frequency ratio into the
// simplest just-intonation fraction that explains it.
//
// # Invariants
//
//   - A Ratio built through NewRatio is always reduced with Num, Den > 0.
//     Invalid input (zero, negative) resolves to Unison instead of failing.
//   - Monzo reconstruction uses checked arithmetic; an exponent vector that
//     would overflow int64 reports ok=false rather than wrapping.
//   - Every search loop carries an explicit iteration cap, so every call
//     terminates by construction.
//
// Nothing in this package allocates beyond a few small maps and slices, and
// nothing blocks or performs I/O; it is safe to call from a pitch-tracker
// callback.
package ratio
