package httpcore

import (
	"io"
	"net"
)

// RequestWriter is the client-side mirror of Response: it accumulates a
// request's method, target, and headers, then writes the request line,
// header frame, and body to a connection, one request per connection
// (matching this engine's minimal client harness scope — no connection
// reuse, no redirects, no TLS). Grounded on
// original_source/src/libhttp/client/request.rs's RequestWriter
// (try_connect/connect/try_write_headers/write_headers sequencing) and
// the teacher's client/request.go field layout.
type RequestWriter struct {
	Method     Method
	RequestURI RequestURI
	Headers    *RequestHeaders

	conn   net.Conn
	stream *BufferedStream

	headersWritten bool
}

// NewRequestWriter builds a RequestWriter for method and uri with an
// empty header set; callers set Headers.Host and anything else needed
// before the first Write or TryWriteHeaders call.
func NewRequestWriter(method Method, uri RequestURI) *RequestWriter {
	return &RequestWriter{
		Method:     method,
		RequestURI: uri,
		Headers:    &RequestHeaders{},
	}
}

// Connect dials addr ("host:port") and prepares the BufferedStream the
// request will be written through. Panics if already connected.
func (rw *RequestWriter) Connect(addr string) error {
	if rw.conn != nil {
		panic("httpcore: RequestWriter.Connect called twice")
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	rw.conn = conn
	rw.stream = NewBufferedStreamSize(conn, DefaultBufferSize, false)
	return nil
}

// writeHeaders writes the request line and header frame exactly once. As
// in Response.writeHeaders, the chunked-vs-Content-Length decision must be
// applied to the stream only after the frame itself is on the wire, or the
// request line and headers would be chunk-encoded along with the body.
func (rw *RequestWriter) writeHeaders() error {
	if rw.headersWritten {
		return nil
	}
	rw.headersWritten = true
	chunked := rw.Headers.ContentLength == nil
	if chunked {
		rw.Headers.TransferEncoding = []TransferCoding{{Chunked: true}}
	}
	if err := WriteRequestLine(rw.stream, rw.Method, rw.RequestURI); err != nil {
		return err
	}
	if err := writeRequestHeaderFrame(rw.stream, rw.Headers); err != nil {
		return err
	}
	if chunked {
		if err := rw.stream.Flush(); err != nil {
			return err
		}
	}
	rw.stream.SetWritingChunkedBody(chunked)
	return nil
}

// TryWriteHeaders writes the request line and headers if they have not
// already been written, without requiring a body write to trigger it —
// used for bodyless requests like GET.
func (rw *RequestWriter) TryWriteHeaders() error {
	return rw.writeHeaders()
}

// Write implicitly sends the header frame on first call, then writes p as
// request body.
func (rw *RequestWriter) Write(p []byte) (int, error) {
	if err := rw.writeHeaders(); err != nil {
		return 0, err
	}
	return rw.stream.Write(p)
}

// Finish flushes any chunked body terminator and the underlying stream,
// then reads the response. Grounded on request.rs's read_response, which
// cannot begin reading until writing is complete.
func (rw *RequestWriter) Finish() (*ClientResponse, error) {
	if err := rw.writeHeaders(); err != nil {
		return nil, err
	}
	if err := rw.stream.FinishResponse(); err != nil {
		return nil, err
	}
	return ReadClientResponse(rw.stream)
}

// Close releases the underlying connection and its pooled buffers.
func (rw *RequestWriter) Close() error {
	if rw.stream != nil {
		rw.stream.Release()
	}
	if rw.conn != nil {
		return rw.conn.Close()
	}
	return nil
}

// ClientResponse is the client-side parsed response: status line, typed
// headers, and a body reader resolved per spec §4.9's "read until the
// connection closes" fallback when neither Content-Length nor chunked
// framing is present.
type ClientResponse struct {
	Major   uint64
	Minor   uint64
	Status  Status
	Headers *ResponseHeaders
	Body    io.Reader
}

// ReadClientResponse reads a status line, header list, and builds a body
// reader off r. Grounded on
// original_source/src/libhttp/client/response.rs's ResponseReader::new.
func ReadClientResponse(r bulkByteReader) (*ClientResponse, error) {
	major, minor, status, err := ReadStatusLine(r)
	if err != nil {
		return nil, err
	}
	headers := &ResponseHeaders{}
	if err := ReadResponseHeaderList(r, headers); err != nil {
		return nil, err
	}
	return &ClientResponse{
		Major:   major,
		Minor:   minor,
		Status:  status,
		Headers: headers,
		Body:    ResponseBodyReader(r, headers),
	}, nil
}

// Client is a convenience one-shot request/response helper built on
// RequestWriter/ReadClientResponse: dial, write, read, close. It does not
// pool or reuse connections (spec §6's client harness is minimal by
// design; connection reuse is left to callers composing RequestWriter
// themselves).
type Client struct{}

// NewClient returns a Client ready to Do requests.
func NewClient() *Client { return &Client{} }

// Do dials addr, sends method/uri/headers with body (nil for no body),
// and returns the parsed response. The connection is closed automatically
// once the response's Body has been read to EOF or error; callers just
// need to drain Body.
func (c *Client) Do(addr string, method Method, uri RequestURI, headers *RequestHeaders, body io.Reader) (*ClientResponse, error) {
	rw := NewRequestWriter(method, uri)
	if headers != nil {
		rw.Headers = headers
	}
	if err := rw.Connect(addr); err != nil {
		return nil, err
	}
	if body != nil {
		if _, err := io.Copy(rw, body); err != nil {
			rw.Close()
			return nil, err
		}
	}
	resp, err := rw.Finish()
	if err != nil {
		rw.Close()
		return nil, err
	}
	resp.Body = &clientBodyCloser{Reader: resp.Body, closer: rw}
	return resp, nil
}

// clientBodyCloser closes the underlying RequestWriter (and its
// connection) once the response body has been fully read, so a simple
// io.ReadAll(resp.Body) is enough to release the connection without the
// caller needing to reach back into the Client.
type clientBodyCloser struct {
	io.Reader
	closer io.Closer
	closed bool
}

func (c *clientBodyCloser) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	if err != nil && !c.closed {
		c.closed = true
		c.closer.Close()
	}
	return n, err
}
