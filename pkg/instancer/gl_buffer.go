package instancer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const matrixBytes = int(unsafe.Sizeof(Matrix{}))

// GLBuffer is a Buffer backed by an OpenGL array buffer holding one row-major
// mat4 per instance. It must be created and used on the thread that owns the
// GL context.
type GLBuffer struct {
	vbo      uint32
	capacity int
	length   int
}

// NewGLBuffer allocates a buffer with room for capacity instances.
func NewGLBuffer(capacity int) *GLBuffer {
	b := &GLBuffer{}
	gl.GenBuffers(1, &b.vbo)
	b.allocate(max(capacity, 1))
	return b
}

// ID returns the OpenGL buffer name.
func (b *GLBuffer) ID() uint32 {
	return b.vbo
}

// BindAttributes points four consecutive vec4 attributes starting at location
// at the buffer rows and advances them once per instance. The target VAO must
// be bound.
func (b *GLBuffer) BindAttributes(location uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	for row := uint32(0); row < 4; row++ {
		gl.VertexAttribPointerWithOffset(location+row, 4, gl.FLOAT, false, int32(matrixBytes), uintptr(row*16))
		gl.EnableVertexAttribArray(location + row)
		gl.VertexAttribDivisor(location+row, 1)
	}
}

func (b *GLBuffer) allocate(capacity int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*matrixBytes, nil, gl.DYNAMIC_DRAW)
	b.capacity = capacity
}

// Reserve grows the buffer in place, keeping its name and the first Len
// instances.
func (b *GLBuffer) Reserve(n int) error {
	if n <= b.capacity {
		return nil
	}
	capacity := b.capacity
	for capacity < n {
		capacity *= 2
	}

	if b.length == 0 {
		b.allocate(capacity)
		return nil
	}

	size := b.length * matrixBytes
	var tmp uint32
	gl.GenBuffers(1, &tmp)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, tmp)
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, nil, gl.STREAM_COPY)
	gl.BindBuffer(gl.COPY_READ_BUFFER, b.vbo)
	gl.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, 0, 0, size)

	b.allocate(capacity)

	gl.BindBuffer(gl.COPY_READ_BUFFER, tmp)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.vbo)
	gl.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, 0, 0, size)
	gl.DeleteBuffers(1, &tmp)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("grow instance buffer to %d: gl error 0x%x", capacity, code)
	}
	return nil
}

func (b *GLBuffer) Upload(matrices []Matrix) error {
	b.length = 0
	if err := b.Reserve(len(matrices)); err != nil {
		return err
	}
	if len(matrices) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(matrices)*matrixBytes, unsafe.Pointer(&matrices[0]))
	}
	b.length = len(matrices)
	return nil
}

func (b *GLBuffer) Write(index int, m Matrix) error {
	if index < 0 || index > b.length {
		return fmt.Errorf("%w: write at %d, buffer holds %d", ErrInvalidInstanceID, index, b.length)
	}
	if err := b.Reserve(index + 1); err != nil {
		return err
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, index*matrixBytes, matrixBytes, unsafe.Pointer(&m[0]))
	if index == b.length {
		b.length++
	}
	return nil
}

func (b *GLBuffer) Len() int {
	return b.length
}

func (b *GLBuffer) Close() error {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	b.capacity, b.length = 0, 0
	return nil
}
