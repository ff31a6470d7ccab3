package matcher

import (
	"errors"
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// ErrInvalidPattern is matched by every pattern compilation failure.
var ErrInvalidPattern = errors.New("invalid pattern")

// PatternError locates the rule whose pattern failed to compile.
type PatternError struct {
	Kind    types.Kind
	Index   int // position of the descriptor within its family list
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s rule %d: invalid pattern %q: %v", e.Kind, e.Index, e.Pattern, e.Err)
}

// Unwrap exposes both ErrInvalidPattern and the regexp2 error.
func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}
