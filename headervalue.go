package httpcore

import (
	"errors"
	"io"
)

type headerValueState uint8

const (
	hvNormal headerValueState = iota
	hvInsideQuotedString
	hvInsideQuotedStringEscape
	hvCompactingLWS
	hvGotCR
	hvGotCRLF
	hvFinished
)

// HeaderValueReader iterates the bytes of a single header value, folding
// any linear white space (SP/HT, optionally preceded by CR LF) into a
// single SP and stopping at the line's terminating CR LF (or bare LF).
// Ported from the original's HeaderValueByteIterator state machine
// (original_source/src/libhttp/headers/mod.rs) so that no header-value
// parser needs to reimplement LWS folding itself.
//
// After Next returns (0, false, nil) the iterator is exhausted; the byte
// that terminated the value (consumed from the underlying reader in the
// process of detecting the end) is available via Pending and must be
// pushed back onto the underlying stream by the caller if it still needs
// it — see header-list parsing in messagereaders.go.
type HeaderValueReader struct {
	r HeaderValueByteSource

	hasPending bool
	pending    byte

	atStart bool
	state   headerValueState

	finished       bool
	terminatorByte byte
	hasTerminator  bool
}

// HeaderValueByteSource is the minimal source a HeaderValueReader needs:
// a plain byte-at-a-time reader with io.EOF on exhaustion. It deliberately
// does not require PokeByte — the iterator does its own one-byte lookahead
// internally, mirroring the original's next_byte field.
type HeaderValueByteSource interface {
	ReadByte() (byte, error)
}

func newHeaderValueReader(r HeaderValueByteSource) *HeaderValueReader {
	return &HeaderValueReader{r: r, atStart: true, state: hvNormal}
}

// Next returns the next logical byte of the header value, folding LWS and
// stopping at the line terminator. ok is false once the value is
// exhausted (not an error), including when the source reports io.EOF;
// err is only set on any other underlying I/O failure.
func (h *HeaderValueReader) Next() (b byte, ok bool, err error) {
	if h.state == hvFinished {
		return 0, false, nil
	}
	for {
		var cur byte
		if h.hasPending {
			cur = h.pending
			h.hasPending = false
		} else {
			cb, rerr := h.r.ReadByte()
			if rerr != nil {
				h.state = hvFinished
				h.finished = true
				if rerr == io.EOF {
					return 0, false, nil
				}
				return 0, false, wrapIO(rerr)
			}
			cur = cb
		}

		switch {
		case (h.state == hvNormal || h.state == hvCompactingLWS) && cur == cr:
			h.state = hvGotCR
			continue

		case h.state == hvNormal && cur == '"':
			h.atStart = false
			h.state = hvInsideQuotedString
			return cur, true, nil

		case h.state == hvInsideQuotedString && cur == '\\':
			h.state = hvInsideQuotedStringEscape
			return cur, true, nil

		case h.state == hvInsideQuotedStringEscape:
			h.state = hvInsideQuotedString
			return cur, true, nil

		case h.state == hvInsideQuotedString && cur == '"':
			h.state = hvNormal
			return cur, true, nil

		case h.state == hvInsideQuotedString:
			return cur, true, nil

		case (h.state == hvGotCR || h.state == hvNormal) && cur == lf:
			h.state = hvGotCRLF
			continue

		case h.state == hvGotCR:
			// CR without LF: not a valid line ending. Drop the CR (matches
			// the original's documented, if uneasy, behaviour) and
			// reprocess cur as Normal.
			h.hasPending = true
			h.pending = cur
			h.state = hvNormal
			continue

		case h.state == hvGotCRLF && (cur == sp || cur == ht):
			h.state = hvCompactingLWS
			continue

		case h.state == hvGotCRLF:
			h.terminatorByte = cur
			h.hasTerminator = true
			h.state = hvFinished
			h.finished = true
			return 0, false, nil

		case (h.state == hvNormal || h.state == hvCompactingLWS) && (cur == sp || cur == ht):
			h.state = hvCompactingLWS
			continue

		case h.state == hvCompactingLWS:
			h.state = hvNormal
			if h.atStart {
				return cur, true, nil
			}
			h.hasPending = true
			h.pending = cur
			return sp, true, nil

		case h.state == hvNormal:
			h.atStart = false
			return cur, true, nil

		default:
			panic("httpcore: unreachable header value iterator state")
		}
	}
}

// Pending returns the byte consumed from the underlying source while
// detecting the end of the value, and true, once the iterator has
// finished at an end of line. It is false beforehand, and also when the
// value ended with the source itself (io.EOF) or on an I/O error.
func (h *HeaderValueReader) Pending() (byte, bool) {
	return h.terminatorByte, h.hasTerminator
}

// Finished reports whether the iterator has reached the end of the value.
func (h *HeaderValueReader) Finished() bool { return h.finished }

// Drain consumes and discards any remaining bytes, ensuring the
// underlying reader is positioned at the value's terminator regardless of
// whether the caller read every byte itself. Mirrors the `for _ in iter {}`
// sweep in the original's header_enum_from_stream.
func (h *HeaderValueReader) Drain() error {
	for {
		_, ok, err := h.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// CollectString reads every remaining byte of the value into a string.
// Used by header types whose value is raw text (spec: "raw string").
func (h *HeaderValueReader) CollectString() (string, error) {
	var buf []byte
	for {
		b, ok, err := h.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

var errUnterminatedQuotedString = errors.New("unterminated quoted-string")

// ReadQuotedString reads a quoted-string per RFC 7230 §3.2.6. If
// alreadyOpened is false, the first byte consumed must be a literal `"`;
// if true, parsing resumes as if the opening quote were already consumed.
// Backslash escapes are unescaped in the returned string.
func (h *HeaderValueReader) ReadQuotedString(alreadyOpened bool) (string, error) {
	const (
		qsStart = iota
		qsNormal
		qsEscaping
	)
	state := qsNormal
	if !alreadyOpened {
		state = qsStart
	}
	var out []byte
	for {
		b, ok, err := h.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", newError(KindMalformedHeaderValue, errUnterminatedQuotedString)
		}
		switch state {
		case qsStart:
			if b != '"' {
				return "", newError(KindMalformedHeaderValue, errors.New("quoted-string does not start with a quote"))
			}
			state = qsNormal
		case qsNormal:
			switch b {
			case '\\':
				state = qsEscaping
			case '"':
				return string(out), nil
			default:
				out = append(out, b)
			}
		case qsEscaping:
			out = append(out, b)
			state = qsNormal
		}
	}
}

// ReadToken reads a bare RFC 7230 token: bytes up to (but not including)
// the first non-token-octet byte, which is retained internally and
// re-delivered on the next Next() call.
func (h *HeaderValueReader) ReadToken() (string, error) {
	var out []byte
	for {
		b, ok, err := h.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		if !isTokenOctet(b) {
			h.hasPending = true
			h.pending = b
			break
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return "", newError(KindMalformedHeaderValue, errors.New("expected token"))
	}
	return string(out), nil
}

// ReadTokenOrQuotedString reads a token if the next byte isn't a quote,
// else a quoted-string. Used for header parameter values (spec: media
// type, Accept, etc. all share this grammar).
func (h *HeaderValueReader) ReadTokenOrQuotedString() (string, error) {
	b, ok, err := h.Next()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newError(KindMalformedHeaderValue, errors.New("expected token or quoted-string"))
	}
	if b == '"' {
		return h.ReadQuotedString(true)
	}
	h.hasPending = true
	h.pending = b
	return h.ReadToken()
}

func (h *HeaderValueReader) skipOptionalLWS() (next byte, ok bool, err error) {
	for {
		b, ok, err := h.Next()
		if err != nil || !ok {
			return 0, ok, err
		}
		if b == sp || b == ht {
			continue
		}
		return b, true, nil
	}
}

// headerParam is one (key, value) pair of a parameterized header value
// (e.g. a media type's charset=utf-8), preserving source order.
type headerParam struct {
	key   string
	value string
}

// ReadParameters reads a `*( ";" OWS token "=" ( token / quoted-string ) )`
// tail, as used by Content-Type, Accept and Transfer-Encoding extensions.
// Grounded on original_source/src/libhttp/headers/serialization_utils.rs's
// parameter_split state machine, reimplemented here against
// HeaderValueReader instead of operating on a whole string at once.
func (h *HeaderValueReader) ReadParameters() ([]headerParam, error) {
	var params []headerParam
	for {
		b, ok, err := h.skipOptionalLWS()
		if err != nil {
			return nil, err
		}
		if !ok {
			return params, nil
		}
		if b != ';' {
			h.hasPending = true
			h.pending = b
			return params, nil
		}
		keyStart, ok, err := h.skipOptionalLWS()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newError(KindMalformedHeaderValue, errors.New("trailing ';' with no parameter"))
		}
		h.hasPending = true
		h.pending = keyStart
		key, err := h.ReadToken()
		if err != nil {
			return nil, err
		}
		if err := h.expectByte('='); err != nil {
			return nil, err
		}
		value, err := h.ReadTokenOrQuotedString()
		if err != nil {
			return nil, err
		}
		params = append(params, headerParam{key: key, value: value})
	}
}

func (h *HeaderValueReader) expectByte(want byte) error {
	b, ok, err := h.Next()
	if err != nil {
		return err
	}
	if !ok || b != want {
		return newError(KindMalformedHeaderValue, errors.New("expected byte not found"))
	}
	return nil
}

// SplitCommaList reads the remainder of the value as a comma-separated
// list of tokens, skipping empty elements produced by consecutive commas
// (RFC 7230 §7's "obs-fold" accommodation for empty list elements).
// Grounded on serialization_utils.rs's comma_split.
func (h *HeaderValueReader) SplitCommaList() ([]string, error) {
	var out []string
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = nil
		}
	}
	for {
		b, ok, err := h.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			flush()
			return out, nil
		}
		if b == ',' {
			flush()
			continue
		}
		if b == sp || b == ht {
			continue
		}
		cur = append(cur, b)
	}
}
