// Package testutil holds deterministic stand-ins shared by package tests.
package testutil

// FixedSessionGenerator returns the same session token on every call, so
// a scenario run twice stamps byte-identical readings.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates the generator. An empty token becomes
// "test-session-default".
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedSessionGenerator{token: token}
}

// Generate implements engine.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
