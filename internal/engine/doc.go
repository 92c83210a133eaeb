// Package engine turns a stream of detected pitches into HEJI spellings.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Samples, root changes and anchor resets are enqueued from any goroutine
// and processed one at a time by Run. This keeps reading order identical
// to submission order and lets the readings log be written by exactly one
// goroutine.
//
// Event Processing Flow:
//  1. Submit/SetRoot/ResetAnchor enqueue an Event.
//  2. Run dequeues events in FIFO order.
//  3. Samples below the confidence threshold, or with no usable frequency,
//     are dropped and counted.
//  4. The root anchor is resolved once and stays frozen; later root changes
//     move the reference frequency but not the anchor.
//  5. The sample is spelled, stamped with the next logical seq, handed to
//     the Recorder (if any) and then to the Handler.
//
// Spell and SpellRatio are the on-demand entry points. They share the
// resolver and speller with the loop and are safe from any goroutine.
//
// Logical Clock:
// Readings are ordered by a monotonic seq counter, never by wall-clock
// time. The sample timestamp is carried through for display only.
package engine
