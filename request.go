package httpcore

import (
	"errors"
	"io"
)

// Request is the server-side in-flight request (spec §3): constructed with
// dummy values and filled in incrementally as the wire is parsed, declared
// complete once the blank line after headers has been consumed and the
// body (if any) has been read per its framing. Grounded on the teacher's
// http11.Request field layout, generalized from its zero-copy byte-slice
// fields to this package's typed header collection.
type Request struct {
	Method     Method
	RequestURI RequestURI
	Major      uint64
	Minor      uint64
	Headers    *RequestHeaders
	Body       io.Reader

	// Trailer is populated once Body has been fully read past its final
	// chunk, if the body was chunked and carried trailer fields. Nil until
	// then, and nil forever for non-chunked bodies (spec §5's supplemented
	// trailer-exposure feature).
	Trailer *RequestHeaders

	// RemoteAddr is the network address of the client, set by the
	// connection accept loop.
	RemoteAddr string

	// CloseConnection records the keep-alive policy resolved for this
	// request (spec §4.8): true if the connection must be closed after
	// the response is sent.
	CloseConnection bool
}

// LoadRequest reads one request off r (request-line, headers, body framing)
// and resolves its keep-alive policy. It never returns a body read error:
// body framing is deferred to Body, which the handler reads (or doesn't).
// Grounded on original_source/src/libhttp/server/request.rs's Request::load.
func LoadRequest(r bulkByteReader, remoteAddr string) (*Request, error) {
	method, uri, major, minor, err := ReadRequestLine(r)
	if err != nil {
		return nil, err
	}
	if !isSupportedVersion(major, minor) {
		return nil, newError(KindUnsupportedVersion, errUnsupportedHTTPVersion)
	}
	headers := &RequestHeaders{}
	if major != 0 || minor != 9 {
		if err := ReadRequestHeaderList(r, headers); err != nil {
			return nil, err
		}
	}
	if major == 1 && minor >= 1 && headers.Host == nil {
		return nil, newError(KindBadSyntax, errMissingHostHeader)
	}
	if headers.ContentLength != nil && EndsInChunked(headers.TransferEncoding) {
		// RFC 7230 §3.3.3: a request carrying both framings is rejected
		// outright rather than picking one, closing the request-smuggling
		// window a lenient "Content-Length wins" dispatch would leave open.
		return nil, newError(KindBadSyntax, errAmbiguousFraming)
	}

	req := &Request{
		Method:     method,
		RequestURI: uri,
		Major:      major,
		Minor:      minor,
		Headers:    headers,
		RemoteAddr: remoteAddr,
	}
	req.Body = newTrailerCapturingBody(RequestBodyReader(r, headers), req)
	req.CloseConnection = resolveKeepAlive(major, minor, headers.Connection)
	return req, nil
}

var (
	errMissingHostHeader      = errors.New("HTTP/1.1 request without Host header")
	errUnsupportedHTTPVersion = errors.New("unsupported HTTP version")
	errAmbiguousFraming       = errors.New("request carries both Content-Length and chunked Transfer-Encoding")
)

// isSupportedVersion reports whether (major, minor) is one of the three
// versions this engine understands: HTTP/0.9 (signalled as (0,9)),
// HTTP/1.0, and HTTP/1.1 (spec §4.8: "HTTP versions other than 1.0 and
// 1.1 are rejected with HttpVersionNotSupported").
func isSupportedVersion(major, minor uint64) bool {
	if major == 0 && minor == 9 {
		return true
	}
	return major == 1 && (minor == 0 || minor == 1)
}

// resolveKeepAlive implements spec §4.8's keep-alive policy resolution:
// anything other than HTTP/1.1 (HTTP/1.0, and HTTP/0.9 via its (0,9)
// signal) defaults to close; each Connection token can force close (which
// sticks) or keep-alive (which a later close can still override).
func resolveKeepAlive(major, minor uint64, tokens []string) bool {
	close := !(major == 1 && minor == 1)
	for _, tok := range tokens {
		switch {
		case asciiEqualFold(tok, "close"):
			return true
		case asciiEqualFold(tok, "keep-alive"):
			close = false
		}
	}
	return close
}

// trailerCapturingBody wraps a body reader so that, once it reports EOF,
// any trailer parsed by a ChunkedBodyReader is copied onto the owning
// Request.
type trailerCapturingBody struct {
	io.Reader
	req *Request
}

func newTrailerCapturingBody(r io.Reader, req *Request) io.Reader {
	if _, ok := r.(*ChunkedBodyReader); !ok {
		return r
	}
	return &trailerCapturingBody{Reader: r, req: req}
}

func (t *trailerCapturingBody) Read(p []byte) (int, error) {
	n, err := t.Reader.Read(p)
	if cr, ok := t.Reader.(*ChunkedBodyReader); ok && cr.Trailer != nil {
		t.req.Trailer = cr.Trailer
	}
	return n, err
}
