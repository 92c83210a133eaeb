package glyph

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes carried by LoadError.
const (
	ErrCodeRead      = "E_READ"
	ErrCodeCUE       = "E_CUE"
	ErrCodePrime     = "E_PRIME"
	ErrCodeGlyph     = "E_GLYPH"
	ErrCodeDuplicate = "E_DUPLICATE"
)

// LoadError reports a problem in a glyph table, with the CUE source
// position when one is known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is a *LoadError and returns it.
func IsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeCUE, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: ErrCodeCUE, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
