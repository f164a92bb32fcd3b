package httpcore

import (
	"errors"
	"io"
)

// bulkByteReader is the interface ChunkedBodyReader needs from its
// underlying stream: one-byte reads with pushback, plus a bulk Read for
// copying chunk data efficiently. *BufferedStream satisfies this.
type bulkByteReader interface {
	byteReader
	io.Reader
}

// ChunkedBodyReader decodes a chunked-transfer-coded body (spec §4.6,
// §6's chunked-body grammar), exposing it as a plain io.Reader that
// returns io.EOF after the terminating zero-size chunk and any trailer
// headers have been consumed. Grounded on
// original_source/src/libhttp/buffer.rs's ChunkedReader and the teacher's
// http11/chunked.go (chunk-extension skipping, sticky error, size
// guarding against the CL.TE smuggling class the teacher's P1 fixes
// address).
type ChunkedBodyReader struct {
	r         bulkByteReader
	remaining uint64
	finished  bool
	err       error

	// MaxChunkSize bounds an individual chunk's declared size; zero means
	// unlimited. Defaults to 16 MiB, matching the teacher's DoS guard.
	MaxChunkSize uint64

	// Trailer holds the parsed trailer header block once the body has
	// been fully read (nil until then), exposed per SPEC_FULL.md's
	// trailer-header supplement.
	Trailer *RequestHeaders
}

// NewChunkedBodyReader wraps r, decoding its chunked framing.
func NewChunkedBodyReader(r bulkByteReader) *ChunkedBodyReader {
	return &ChunkedBodyReader{r: r, MaxChunkSize: 16 * 1024 * 1024}
}

var (
	errChunkTooLarge      = errors.New("chunk size exceeds limit")
	errMalformedChunkExt  = errors.New("malformed chunk extension")
)

func (c *ChunkedBodyReader) readChunkHeader() (uint64, error) {
	size, err := readHexadecimal(c.r, func(b byte) bool { return b == ';' || b == cr })
	if err != nil {
		return 0, err
	}
	if c.MaxChunkSize > 0 && size > c.MaxChunkSize {
		return 0, newError(KindInvalidNumber, errChunkTooLarge)
	}
	b, rerr := c.r.ReadByte()
	if rerr != nil {
		return 0, wrapIO(rerr)
	}
	if b == ';' {
		for {
			eb, rerr := c.r.ReadByte()
			if rerr != nil {
				return 0, wrapIO(rerr)
			}
			if eb == cr {
				break
			}
			if eb == lf {
				return 0, newError(KindBadSyntax, errMalformedChunkExt)
			}
		}
	} else if b != cr {
		return 0, newError(KindBadSyntax, errMalformedChunkExt)
	}
	if err := readExactByte(c.r, lf); err != nil {
		return 0, err
	}
	return size, nil
}

func (c *ChunkedBodyReader) readTrailerAndTerminator() error {
	headers := &RequestHeaders{}
	for {
		name, end, err := readHeaderName(c.r)
		if err != nil {
			return err
		}
		if end {
			break
		}
		value, err := readHeaderValueBytes(c.r)
		if err != nil {
			return err
		}
		// A malformed trailer value is dropped, not fatal, matching the
		// main header-list reader's policy (spec §4.6).
		_ = headers.InsertRaw(name, value)
	}
	c.Trailer = headers
	return nil
}

// Read implements io.Reader, returning io.EOF once the terminating chunk
// and any trailer has been consumed.
func (c *ChunkedBodyReader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.finished {
		return 0, io.EOF
	}
	if c.remaining == 0 {
		size, err := c.readChunkHeader()
		if err != nil {
			c.err = err
			return 0, err
		}
		if size == 0 {
			if err := c.readTrailerAndTerminator(); err != nil {
				c.err = err
				return 0, err
			}
			c.finished = true
			return 0, io.EOF
		}
		c.remaining = size
	}
	toRead := uint64(len(p))
	if toRead > c.remaining {
		toRead = c.remaining
	}
	n, err := c.r.Read(p[:toRead])
	c.remaining -= uint64(n)
	if err != nil {
		c.err = wrapIO(err)
		return n, c.err
	}
	if c.remaining == 0 {
		if err := readExactByte(c.r, cr); err != nil {
			c.err = err
			return n, err
		}
		if err := readExactByte(c.r, lf); err != nil {
			c.err = err
			return n, err
		}
	}
	return n, nil
}
