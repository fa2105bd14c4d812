package instancer

import "fmt"

// Buffer is the GPU-visible side of a Manager: a growable array of instance
// matrices the renderer reads from.
type Buffer interface {
	// Reserve makes room for at least n instances without changing contents.
	Reserve(n int) error
	// Upload replaces the whole contents with matrices.
	Upload(matrices []Matrix) error
	// Write stores one matrix at index. Index may equal the current length,
	// which appends.
	Write(index int, m Matrix) error
	// Len returns the number of instances the buffer holds.
	Len() int
	Close() error
}

// MemoryBuffer is a Buffer kept in process memory. It records how often it
// was written, which makes upload patterns observable in tests and tools.
type MemoryBuffer struct {
	data []Matrix

	// Uploads counts Upload calls, Writes counts Write calls.
	Uploads int
	Writes  int
}

// NewMemoryBuffer returns an empty buffer.
func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{}
}

func (b *MemoryBuffer) Reserve(n int) error {
	if n > cap(b.data) {
		grown := make([]Matrix, len(b.data), n)
		copy(grown, b.data)
		b.data = grown
	}
	return nil
}

func (b *MemoryBuffer) Upload(matrices []Matrix) error {
	b.Uploads++
	b.data = append(b.data[:0], matrices...)
	return nil
}

func (b *MemoryBuffer) Write(index int, m Matrix) error {
	b.Writes++
	switch {
	case index < 0 || index > len(b.data):
		return fmt.Errorf("%w: write at %d, buffer holds %d", ErrInvalidInstanceID, index, len(b.data))
	case index == len(b.data):
		b.data = append(b.data, m)
	default:
		b.data[index] = m
	}
	return nil
}

func (b *MemoryBuffer) Len() int {
	return len(b.data)
}

// Matrices returns a copy of the buffer contents.
func (b *MemoryBuffer) Matrices() []Matrix {
	return append([]Matrix(nil), b.data...)
}

func (b *MemoryBuffer) Close() error {
	b.data = nil
	return nil
}
