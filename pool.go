package httpcore

import "github.com/valyala/bytebufferpool"

// streamBufferPool pools the fixed-size read/write buffers BufferedStream
// allocates per connection, so a busy server doesn't pay a 128 KiB
// allocation (64 KiB read + 64 KiB write) on every accept. Grounded on the
// teacher's pkg/shockwave/buffer_pool.go size-classed sync.Pool, but
// implemented against github.com/valyala/bytebufferpool instead of a
// hand-rolled pool — a dependency the teacher's go.mod already declared
// (indirect) but never actually imported from pkg/shockwave/http11 itself;
// wired here rather than dropped.
var streamBufferPool bytebufferpool.Pool

// acquireBuffer returns a pooled buffer sized to exactly size bytes.
func acquireBuffer(size int) *bytebufferpool.ByteBuffer {
	buf := streamBufferPool.Get()
	if cap(buf.B) < size {
		buf.B = make([]byte, size)
	} else {
		buf.B = buf.B[:size]
	}
	return buf
}

// releaseBuffer returns buf to the pool for reuse.
func releaseBuffer(buf *bytebufferpool.ByteBuffer) {
	streamBufferPool.Put(buf)
}
