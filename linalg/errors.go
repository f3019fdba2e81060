package linalg

import "errors"

// ErrEighFailed is returned when the underlying symmetric eigensolver fails
// to converge.
var ErrEighFailed = errors.New("linalg: symmetric eigendecomposition failed to converge")
