package primitive

import "github.com/pkg/errors"

// ErrEndOfData is returned when fewer bytes remain than a scalar or a declared size requires.
var ErrEndOfData = errors.New("unexpected end of data")

// ErrMalformed is returned for data that violates the format: unknown type
// markers, bad signatures and, in strict mode, any non-conformant field.
var ErrMalformed = errors.New("malformed data")

var ErrNilReader = errors.New("Expected io.ReadSeeker to be non-nil, but got a nil value")
