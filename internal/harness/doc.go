// Package harness runs spelling scenarios against the real engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: septimal_tour
//	description: "What this scenario checks"
//	session: test-session-001
//	config:
//	  root: C4
//	  prime_limit: 7
//	steps:
//	  - ratio: "7/4"
//	    expect: { label: "B♭4↓7" }
//	  - tone: "5/4"            # root * 5/4 played as a sample
//	    detune: 2.0            # cents
//	  - hz: 440
//	    confidence: 0.2
//	    expect: { dropped: true }
//	  - root: D4               # move the reference frequency
//	  - reset: true            # clear the frozen anchor
//	assertions:
//	  - type: anchor
//	    anchor: C4
//	  - type: readings
//	    count: 1
//
// The config block overlays config.Default and is decoded strictly, like
// the rest of the file.
//
// # Step Kinds
//
//   - ratio: spelled directly (octave shifts it), no reading is recorded
//   - tone, hz: submitted as a pitch sample and recorded when accepted
//   - root, root_hz: change the reference frequency; the anchor stays frozen
//   - reset: clear the frozen anchor; the next step freezes a new one
//
// # Assertion Types
//
//   - anchor: the frozen anchor at the end of the run, as scientific name
//   - labels: scientific labels of every recorded reading, in seq order
//   - readings: number of readings in the store
//   - approximate: number of approximate spellings across all steps
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory SQLite store, a fixed session token
// (testutil.FixedSessionGenerator) and a logical clock starting at zero
// (testutil.DeterministicClock), so Format output is byte-stable and is
// compared against testdata/golden with goldie.
package harness
