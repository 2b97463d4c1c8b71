// Package encoding maps Go struct prototypes onto the packed,
// little-endian layout the 32-bit target uses for its shared tables.
// Device pointers are not Go pointers; declare them as a 4-byte scalar
// field (see the mailbox package's Addr).
package encoding

import "io"

// Stream is a cursor over a section image.
type Stream interface {
	Offset() int
	Skip(n int) error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Buffer is a Stream over a fixed byte slice, the in-memory stand-in
// for one placed section.
type Buffer struct {
	buf []byte
	off int
}

func NewBuffer(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

func (b *Buffer) Offset() int {
	return b.off
}

func (b *Buffer) Bytes() []byte {
	return b.buf
}

func (b *Buffer) Skip(n int) error {
	if b.off+n > len(b.buf) {
		return io.ErrShortBuffer
	}
	b.off += n
	return nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.off+len(p) > len(b.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, b.buf[b.off:])
	b.off += n
	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	if b.off+len(p) > len(b.buf) {
		return 0, io.ErrShortBuffer
	}
	n := copy(b.buf[b.off:], p)
	b.off += n
	return n, nil
}
