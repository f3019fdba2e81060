package interp

import "errors"

// ErrShape is raised when two multi-indices disagree in length (dimension N).
var ErrShape = errors.New("interp: multi-index dimension mismatch")
