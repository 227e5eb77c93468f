package landmark

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the kind of every validation failure. It is a client fault.
var ErrInvalidInput = errors.New("invalid landmark input")

// Failed checks, used as metric labels.
const (
	CheckEmpty = "empty"
	CheckArity = "arity"
	CheckCount = "count"
)

// Messages returned to callers.
const (
	MsgEmpty = "landmarks must not be empty"
	MsgArity = "Each landmark must contain exactly two values (x, y)."
)

// InputError describes why a landmark payload was rejected.
type InputError struct {
	Check  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
}

// Is reports ErrInvalidInput so callers can classify with errors.Is.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
