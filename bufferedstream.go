package httpcore

import (
	"errors"
	"io"

	"github.com/valyala/bytebufferpool"
)

// DefaultBufferSize is the read/write buffer size a BufferedStream uses
// when none is given explicitly (spec §4.2: "default 64 KiB").
const DefaultBufferSize = 64 * 1024

// BufferedStream wraps any bidirectional byte stream with a fixed-size
// read buffer and a fixed-size write buffer, plus one-byte pushback and
// chunked-write framing. Ported in behaviour (not literally) from
// original_source/src/libhttp/buffer.rs's BufferedStream, restructured
// around Go's io.Reader/io.Writer rather than the original's bespoke
// Stream trait, and backed by pooled buffers (pool.go) rather than fixed
// in-struct arrays.
type BufferedStream struct {
	wrapped io.ReadWriter

	readBuf *bytebufferpool.ByteBuffer
	readPos int
	readMax int

	writeBuf *bytebufferpool.ByteBuffer
	writeLen int

	// callWrappedFlush mirrors the original's field of the same name: some
	// wrapped writers (e.g. in tests) don't want Flush forwarded.
	callWrappedFlush bool

	writingChunkedBody bool
}

// NewBufferedStream wraps stream with DefaultBufferSize read/write buffers.
func NewBufferedStream(stream io.ReadWriter) *BufferedStream {
	return NewBufferedStreamSize(stream, DefaultBufferSize, true)
}

// NewBufferedStreamSize wraps stream with read/write buffers of the given
// size. callWrappedFlush controls whether Flush forwards to stream, if
// stream implements a Flush method via flusher below.
func NewBufferedStreamSize(stream io.ReadWriter, size int, callWrappedFlush bool) *BufferedStream {
	return &BufferedStream{
		wrapped:          stream,
		readBuf:          acquireBuffer(size),
		writeBuf:         acquireBuffer(size),
		callWrappedFlush: callWrappedFlush,
	}
}

// Release returns the stream's pooled buffers. The BufferedStream must not
// be used afterwards.
func (b *BufferedStream) Release() {
	releaseBuffer(b.readBuf)
	releaseBuffer(b.writeBuf)
	b.readBuf = nil
	b.writeBuf = nil
}

// SetWritingChunkedBody toggles chunked write framing; see Write and
// FinishResponse.
func (b *BufferedStream) SetWritingChunkedBody(v bool) { b.writingChunkedBody = v }

// WritingChunkedBody reports whether Write is currently chunk-framing.
func (b *BufferedStream) WritingChunkedBody() bool { return b.writingChunkedBody }

// ReadByte returns the next buffered byte, refilling from the wrapped
// reader when the buffer is empty. Returns io.EOF when the wrapped reader
// is exhausted.
func (b *BufferedStream) ReadByte() (byte, error) {
	if b.readPos == b.readMax {
		n, err := b.wrapped.Read(b.readBuf.B)
		if n == 0 {
			b.readPos, b.readMax = 0, 0
			if err == nil {
				return 0, io.EOF
			}
			return 0, err
		}
		b.readPos, b.readMax = 0, n
	}
	c := b.readBuf.B[b.readPos]
	b.readPos++
	return c, nil
}

var errDoublePoke = errors.New("poke called when buffer is full")

// PokeByte pushes one byte back so the next ReadByte returns it.
// Precondition (spec §4.2): readPos > 0, or the buffer is currently
// empty. Fails if called twice in a row without an intervening read.
func (b *BufferedStream) PokeByte(c byte) error {
	switch {
	case b.readPos == 0 && b.readMax == 0:
		b.readMax = 1
	case b.readPos == 0:
		return errDoublePoke
	default:
		b.readPos--
	}
	b.readBuf.B[b.readPos] = c
	return nil
}

// Read copies min(available, len(buf)) bytes from the buffer, refilling
// at most once. Implements io.Reader.
func (b *BufferedStream) Read(buf []byte) (int, error) {
	if b.readPos == b.readMax {
		n, err := b.wrapped.Read(b.readBuf.B)
		if n == 0 {
			b.readPos, b.readMax = 0, 0
			if err == nil {
				return 0, io.EOF
			}
			return 0, err
		}
		b.readPos, b.readMax = 0, n
	}
	size := b.readMax - b.readPos
	if size > len(buf) {
		size = len(buf)
	}
	copy(buf, b.readBuf.B[b.readPos:b.readPos+size])
	b.readPos += size
	return size, nil
}

// Write buffers buf, flushing (optionally chunk-framed) to the wrapped
// writer when the write buffer would overflow or fills exactly.
// Implements io.Writer.
func (b *BufferedStream) Write(buf []byte) (int, error) {
	total := len(buf)
	if len(buf)+b.writeLen > len(b.writeBuf.B) {
		if b.writingChunkedBody {
			if err := b.writeChunkHeader(b.writeLen + len(buf)); err != nil {
				return 0, err
			}
		}
		if b.writeLen > 0 {
			if _, err := b.wrapped.Write(b.writeBuf.B[:b.writeLen]); err != nil {
				return 0, err
			}
			b.writeLen = 0
		}
		if _, err := b.wrapped.Write(buf); err != nil {
			return 0, err
		}
		if b.writingChunkedBody {
			if _, err := io.WriteString(b.wrapped, "\r\n"); err != nil {
				return 0, err
			}
		}
		return total, nil
	}
	copy(b.writeBuf.B[b.writeLen:], buf)
	b.writeLen += len(buf)
	if b.writeLen == len(b.writeBuf.B) {
		if b.writingChunkedBody {
			if err := b.writeChunkHeader(b.writeLen); err != nil {
				return 0, err
			}
		}
		if _, err := b.wrapped.Write(b.writeBuf.B); err != nil {
			return 0, err
		}
		if b.writingChunkedBody {
			if _, err := io.WriteString(b.wrapped, "\r\n"); err != nil {
				return 0, err
			}
		}
		b.writeLen = 0
	}
	return total, nil
}

func (b *BufferedStream) writeChunkHeader(size int) error {
	_, err := io.WriteString(b.wrapped, hexString(uint64(size))+"\r\n")
	return err
}

func hexString(n uint64) string {
	if n == 0 {
		return "0"
	}
	const digits = "0123456789abcdef"
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n&0xf]
		n >>= 4
	}
	return string(buf[i:])
}

// Flush writes any buffered bytes to the wrapped writer (chunk-framed if
// writingChunkedBody) and, if callWrappedFlush and the wrapped writer
// implements an explicit Flush method, calls it too.
func (b *BufferedStream) Flush() error {
	if b.writeLen > 0 {
		if b.writingChunkedBody {
			if err := b.writeChunkHeader(b.writeLen); err != nil {
				return err
			}
		}
		if _, err := b.wrapped.Write(b.writeBuf.B[:b.writeLen]); err != nil {
			return err
		}
		if b.writingChunkedBody {
			if _, err := io.WriteString(b.wrapped, "\r\n"); err != nil {
				return err
			}
		}
		b.writeLen = 0
	}
	if b.callWrappedFlush {
		if f, ok := b.wrapped.(flusher); ok {
			return f.Flush()
		}
	}
	return nil
}

type flusher interface {
	Flush() error
}

// FinishResponse flushes the stream and, if writingChunkedBody, writes the
// terminating zero-length chunk. Headers (including the blank line) MUST
// already have been written before calling this.
func (b *BufferedStream) FinishResponse() error {
	if err := b.Flush(); err != nil {
		return err
	}
	if b.writingChunkedBody {
		if _, err := io.WriteString(b.wrapped, "0\r\n\r\n"); err != nil {
			return err
		}
		b.writingChunkedBody = false
	}
	return nil
}
