package forest

import "errors"

// Sentinel errors for the boundary conditions cheap enough to detect at a
// natural lookup point; everything else on the hot path is caller-validated
// and left undefined on misuse.
var (
	ErrForestInvalidSize = errors.New("[forest] vertex count must be positive")
	ErrForestEdgeNotFound = errors.New("[forest] edge not present in forest")
)
