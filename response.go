package httpcore

import "errors"

// Response is the server-side outgoing response (spec §3): the handler
// mutates Status and Headers freely until the first body byte or an
// explicit TryWriteHeaders, at which point the header frame is emitted and
// any further header mutation is a programming error. Grounded on the
// teacher's http11.ResponseWriter state machine (statusWritten/
// headerWritten booleans), adapted here to this package's typed
// ResponseHeaders and BufferedStream rather than a raw io.Writer plus an
// untyped header map.
type Response struct {
	Status  Status
	Headers *ResponseHeaders

	stream         *BufferedStream
	headersWritten bool
}

// NewResponse returns a Response defaulting to 200 OK with empty headers,
// writing to stream.
func NewResponse(stream *BufferedStream) *Response {
	return &Response{
		Status:  StatusOK,
		Headers: &ResponseHeaders{},
		stream:  stream,
	}
}

var errHeadersAlreadyWritten = errors.New("httpcore: headers already written")

// SetStatus sets the response status. Panics if headers have already been
// written, the same programming-error contract the teacher enforces via
// ErrHeadersAlreadyWritten, but detected here at the point of misuse since
// headers are typed fields rather than a post-hoc map.
func (resp *Response) SetStatus(status Status) {
	if resp.headersWritten {
		panic(errHeadersAlreadyWritten)
	}
	resp.Status = status
}

// HeadersWritten reports whether the header frame has already been sent.
func (resp *Response) HeadersWritten() bool { return resp.headersWritten }

// writeHeaders chooses body framing, emits the status line and header
// frame, if not already done, and only then switches the stream into
// chunked-write mode — the header frame itself must never be chunk-framed,
// so the stream's write mode cannot flip until after it is on the wire.
func (resp *Response) writeHeaders() error {
	if resp.headersWritten {
		return nil
	}
	resp.headersWritten = true
	chunked := resp.Headers.ContentLength == nil
	if chunked {
		resp.Headers.TransferEncoding = []TransferCoding{{Chunked: true}}
	}
	if err := WriteStatusLine(resp.stream, resp.Status); err != nil {
		return err
	}
	if err := writeResponseHeaderFrame(resp.stream, resp.Headers); err != nil {
		return err
	}
	if chunked {
		if err := resp.stream.Flush(); err != nil {
			return err
		}
	}
	resp.stream.SetWritingChunkedBody(chunked)
	return nil
}

// Write implements io.Writer: the first call triggers an implicit header
// frame (status 200 unless SetStatus was already called), matching the
// teacher's "first Write implies WriteHeader(200)" contract.
func (resp *Response) Write(p []byte) (int, error) {
	if err := resp.writeHeaders(); err != nil {
		return 0, err
	}
	return resp.stream.Write(p)
}

// WriteContinue writes an interim "100 Continue" status line with no
// headers, then leaves the response open for further header mutation and
// a final status. Spec §5's supplemented Expect: 100-continue feature:
// parsing the Expect header is typed, but emitting the interim response is
// left to the handler, matching the original's treatment of Expect as a
// parsed-but-not-server-driven header.
func (resp *Response) WriteContinue() error {
	if resp.headersWritten {
		panic(errHeadersAlreadyWritten)
	}
	if err := WriteStatusLine(resp.stream, StatusContinue); err != nil {
		return err
	}
	if _, err := resp.stream.Write([]byte("\r\n")); err != nil {
		return err
	}
	return resp.stream.Flush()
}

// TryWriteHeaders guarantees a header frame has been emitted, writing the
// currently-set status and headers if none has been sent yet. Spec §4.8:
// called unconditionally after the handler returns.
func (resp *Response) TryWriteHeaders() error {
	return resp.writeHeaders()
}

// Finish flushes any buffered body bytes and, if the response was framed
// as chunked, writes the terminating zero-length chunk. Spec §3: after
// Finish, the underlying stream is either closed or returned to the
// keep-alive loop.
func (resp *Response) Finish() error {
	if err := resp.TryWriteHeaders(); err != nil {
		return err
	}
	return resp.stream.FinishResponse()
}
