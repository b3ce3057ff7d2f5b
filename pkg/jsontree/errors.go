package jsontree

import (
	"errors"

	"github.com/deploymenttheory/go-jsontree/internal/arena"
)

// ErrLengthExceeded is returned when a name, payload, or the whole
// buffer would exceed its size limit, or when offset arithmetic would
// overflow.
var ErrLengthExceeded = arena.ErrLengthExceeded

// ErrCorruptInput is returned when an adopted snapshot fails
// validation.
var ErrCorruptInput = errors.New("corrupt tree buffer")
