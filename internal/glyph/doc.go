// Package glyph loads the accidental glyph table.
//
// The table is a CUE document validated against an embedded schema. It
// answers two questions for the speller and the staff projector: which
// comma step sizes exist for a prime, and which glyph (SMuFL name plus
// advance) draws a given sharp/flat count or comma component. An embedded
// default covers every prime the notation supports; Load reads a
// replacement.
package glyph
