package buffer

import (
	"sync"
)

const (
	defaultBufSize = 4 * 1024        // 4KB
	bigBufSize     = 64 * 1024       // 64KB
	maxBufSize     = 4 * 1024 * 1024 // buffers above this are left to the GC
)

var bufPool = sync.Pool{
	New: func() any {
		return &memBuffer{
			buf: make([]byte, 0, defaultBufSize),
		}
	},
}

var bigBufPool = sync.Pool{
	New: func() any {
		return &memBuffer{
			buf: make([]byte, 0, bigBufSize),
		}
	},
}

// Get returns a pooled buffer of length size.
func Get(size int) PooledBuffer {
	var b *memBuffer
	if size >= bigBufSize {
		b, _ = bigBufPool.Get().(*memBuffer)
	} else {
		b, _ = bufPool.Get().(*memBuffer)
	}

	if cap(b.buf) < size {
		b.buf = make([]byte, size)
	}
	b.buf = b.buf[:size]
	return b
}

type memBuffer struct {
	buf []byte
}

func (b *memBuffer) Data() []byte {
	return b.buf
}

func (b *memBuffer) Len() int {
	return len(b.buf)
}

func (b *memBuffer) Cap() int {
	return cap(b.buf)
}

// Resize changes the length keeping the existing contents. Growing past the capacity
// reallocates with headroom so repeated small appends stay amortized.
func (b *memBuffer) Resize(size int) {
	if size > cap(b.buf) {
		newBuf := make([]byte, size, size+size/2)
		copy(newBuf, b.buf)
		b.buf = newBuf
		return
	}
	b.buf = b.buf[:size]
}

func (b *memBuffer) Append(p ...byte) {
	n := len(b.buf)
	b.Resize(n + len(p))
	copy(b.buf[n:], p)
}

// Discard drops the first n bytes, moving the remainder to the front.
func (b *memBuffer) Discard(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.buf) {
		b.buf = b.buf[:0]
		return
	}
	rest := copy(b.buf, b.buf[n:])
	b.buf = b.buf[:rest]
}

func (b *memBuffer) Release() {
	if cap(b.buf) > maxBufSize {
		return
	}

	b.buf = b.buf[:0]
	if cap(b.buf) >= bigBufSize {
		bigBufPool.Put(b)
	} else {
		bufPool.Put(b)
	}
}
