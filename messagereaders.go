package httpcore

import (
	"errors"
	"io"
)

// ReadRequestLine implements spec §4.6's request-line read: a method via
// the §4.1 recognizer, a Request-URI up to SP/CR/LF, and either an
// HTTP/M.N version (HTTP/1.x) or no version at all (HTTP/0.9, signalled
// here as version (0, 9)). Grounded on
// original_source/src/libhttp/server/request.rs's read_request_line.
func ReadRequestLine(r byteReader) (method Method, uri RequestURI, major, minor uint64, err error) {
	method, err = readMethod(r)
	if err != nil {
		return Method{}, RequestURI{}, 0, 0, err
	}
	uri, err = readRequestURI(r, func(b byte) bool { return b == sp || b == cr || b == lf })
	if err != nil {
		return Method{}, RequestURI{}, 0, 0, err
	}
	term, rerr := r.ReadByte()
	if rerr != nil {
		return Method{}, RequestURI{}, 0, 0, wrapIO(rerr)
	}
	switch term {
	case lf:
		return method, uri, 0, 9, nil
	case cr:
		if err := readExactByte(r, lf); err != nil {
			return Method{}, RequestURI{}, 0, 0, err
		}
		return method, uri, 0, 9, nil
	case sp:
		major, minor, err = readHTTPVersion(r, func(b byte) bool { return b == cr || b == lf })
		if err != nil {
			return Method{}, RequestURI{}, 0, 0, err
		}
		if err := readLineTerminator(r); err != nil {
			return Method{}, RequestURI{}, 0, 0, err
		}
		return method, uri, major, minor, nil
	default:
		return Method{}, RequestURI{}, 0, 0, newError(KindBadSyntax, errors.New("malformed request-line"))
	}
}

// readLineTerminator consumes a bare LF or a CR LF pair.
func readLineTerminator(r byteReader) error {
	b, err := r.ReadByte()
	if err != nil {
		return wrapIO(err)
	}
	if b == lf {
		return nil
	}
	if b == cr {
		return readExactByte(r, lf)
	}
	return newError(KindBadSyntax, errors.New("expected CRLF or LF"))
}

var errStatusCodeNotThreeDigits = errors.New("status code is not exactly three digits")

// readStatusCode reads exactly three decimal digits followed by SP, per
// spec §4.6's status-line grammar.
func readStatusCode(r byteReader) (uint16, error) {
	var digits [3]byte
	for i := range digits {
		b, err := r.ReadByte()
		if err != nil {
			return 0, wrapIO(err)
		}
		if !isDigit(b) {
			return 0, newError(KindBadSyntax, errStatusCodeNotThreeDigits)
		}
		digits[i] = b
	}
	if err := readExactByte(r, sp); err != nil {
		return 0, err
	}
	n := uint64(digits[0]-'0')*100 + uint64(digits[1]-'0')*10 + uint64(digits[2]-'0')
	return uint16(n), nil
}

// readReasonPhrase reads up to the line terminator; a bare CR not followed
// by LF fails (spec §4.6), a bare LF is accepted per §9's permissive
// lone-LF reading.
func readReasonPhrase(r byteReader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", wrapIO(err)
		}
		switch b {
		case cr:
			if err := readExactByte(r, lf); err != nil {
				return "", err
			}
			return string(buf), nil
		case lf:
			return string(buf), nil
		default:
			buf = append(buf, b)
		}
	}
}

// ReadStatusLine implements spec §4.6's status-line read: HTTP/M.N SP
// 3DIGIT SP reason-phrase terminated by CRLF (or bare LF). Grounded on
// original_source/src/libhttp/client/response.rs.
func ReadStatusLine(r byteReader) (major, minor uint64, status Status, err error) {
	major, minor, err = readHTTPVersion(r, func(b byte) bool { return b == sp })
	if err != nil {
		return 0, 0, Status{}, err
	}
	if err := readExactByte(r, sp); err != nil {
		return 0, 0, Status{}, err
	}
	code, err := readStatusCode(r)
	if err != nil {
		return 0, 0, Status{}, err
	}
	reason, err := readReasonPhrase(r)
	if err != nil {
		return 0, 0, Status{}, err
	}
	return major, minor, FromCodeAndReason(code, reason), nil
}

// ReadRequestHeaderList reads header lines into headers until the blank
// line terminating the header block. Malformed header syntax is fatal
// (propagated); a malformed header value is dropped and reading continues
// (spec §4.6).
func ReadRequestHeaderList(r byteReader, headers *RequestHeaders) error {
	for {
		name, end, err := readHeaderName(r)
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		value, err := readHeaderValueBytes(r)
		if err != nil {
			return err
		}
		if err := headers.InsertRaw(name, value); err != nil {
			// Any failure at this point is a value-parsing failure, not a
			// syntax failure (readHeaderName already validated the name);
			// per spec §4.6, drop the header and keep reading.
			continue
		}
	}
}

// ReadResponseHeaderList is ReadRequestHeaderList's response-side mirror.
func ReadResponseHeaderList(r byteReader, headers *ResponseHeaders) error {
	for {
		name, end, err := readHeaderName(r)
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		value, err := readHeaderValueBytes(r)
		if err != nil {
			return err
		}
		if err := headers.InsertRaw(name, value); err != nil {
			// Any failure at this point is a value-parsing failure, not a
			// syntax failure (readHeaderName already validated the name);
			// per spec §4.6, drop the header and keep reading.
			continue
		}
	}
}

// emptyBody is the zero-length io.Reader used for requests with neither
// Content-Length nor a chunked Transfer-Encoding (spec §4.6).
type emptyBody struct{}

func (emptyBody) Read([]byte) (int, error) { return 0, io.EOF }

var noBody io.Reader = emptyBody{}

// RequestBodyReader implements spec §4.6's body-framing dispatch for
// requests: Content-Length takes priority over Transfer-Encoding; a
// request is never read as chunked without an explicit
// "Transfer-Encoding: chunked" header, and otherwise has no body.
func RequestBodyReader(r bulkByteReader, headers *RequestHeaders) io.Reader {
	if headers.ContentLength != nil {
		return io.LimitReader(r, int64(*headers.ContentLength))
	}
	if EndsInChunked(headers.TransferEncoding) {
		return NewChunkedBodyReader(r)
	}
	return noBody
}

// ResponseBodyReader is RequestBodyReader's response-side mirror. A
// response lacking both framings is read until the connection closes
// (spec §9's open question, resolved here in favour of read-until-close
// since a client otherwise has no way to know where the body ends).
func ResponseBodyReader(r bulkByteReader, headers *ResponseHeaders) io.Reader {
	if headers.ContentLength != nil {
		return io.LimitReader(r, int64(*headers.ContentLength))
	}
	if EndsInChunked(headers.TransferEncoding) {
		return NewChunkedBodyReader(r)
	}
	return r
}

// drainToEOF reads r to exhaustion, discarding bytes. Used before reusing
// a connection when a handler did not fully consume a request body.
func drainToEOF(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
