package geometry

import "errors"

// Geometry preparation errors.
var (
	// ErrInvalidGeometry reports malformed input: a flat array whose length is
	// not a multiple of its row width, a negative index, or triangles over a
	// mesh without vertices.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrIndexOutOfBounds reports an index >= vertex count.
	ErrIndexOutOfBounds = errors.New("vertex index out of bounds")
	// ErrCountMismatch reports a declared vertex or triangle count that does
	// not match the length of the array it describes.
	ErrCountMismatch = errors.New("declared count does not match array length")
)
