// Package anchor derives and freezes the root anchor: the circle-of-fifths
// position and diatonic number of the tonal root from which every other
// spelling in a session is measured.
//
// # Freezing
//
// The anchor is computed once, the first time it is needed, from the root
// frequency, the note-naming reference (A4) and the accidental preference.
// It is then persisted through a Store with the frozen flag set and reused
// verbatim until an explicit Reset, even if the root or A4 change. Labels
// that were already rendered must not drift underneath the user.
//
// The Resolver is the single writer of that state. Readers get an immutable
// snapshot through an atomic pointer and never take a lock once the anchor
// is frozen.
package anchor
