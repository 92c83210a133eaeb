// Package heji spells just-intonation ratios in Helmholtz-Ellis notation.
//
// A ratio is placed on the staff in three stages:
//
//  1. Every prime above 3 is replaced by its Pythagorean skeleton (5/4 is
//     spelled from 81/64, 7/4 from 16/9 and so on). The summed 3- and
//     2-exponents move the root anchor to a letter, octave and sharp/flat
//     count (MapDisplacement).
//  2. Each prime within the limit becomes one or more comma components,
//     directed by the prime's polarity and split into the glyph step sizes
//     available for it (Compose, Decompose).
//  3. An ordered list of rewrite rules fixes spellings that the skeleton
//     alone makes illegible (DefaultRules).
//
// When spelling a raw frequency the ratio is first found with the
// continued-fraction approximator. If no exact spelling is good enough the
// ET-distance disambiguator picks the nearest equal-tempered accidental and
// the result is flagged approximate.
//
// Everything in this package is a pure function of its inputs. The root
// anchor is passed in by the caller; see package anchor for how it is
// frozen.
package heji
