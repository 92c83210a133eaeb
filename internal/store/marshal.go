package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/jispell/internal/heji"
)

// marshalSpelling converts a spelling to JSON TEXT for storage.
// HTML escaping is off so accidental symbols stay readable in the column.
func marshalSpelling(sp heji.Spelling) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sp); err != nil {
		return "", fmt.Errorf("marshal spelling: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalSpelling parses the spelling column.
func unmarshalSpelling(data string) (heji.Spelling, error) {
	var sp heji.Spelling
	if err := json.Unmarshal([]byte(data), &sp); err != nil {
		return heji.Spelling{}, fmt.Errorf("unmarshal spelling: %w", err)
	}
	return sp, nil
}
