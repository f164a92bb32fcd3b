package httpcore

import "io"

// WriteRequestLine writes "METHOD SP target SP HTTP/1.0 CRLF" (spec §4.7:
// the engine advertises 1.0 until it can assert full 1.1 compliance).
func WriteRequestLine(w io.Writer, method Method, uri RequestURI) error {
	_, err := io.WriteString(w, method.String()+" "+uri.String()+" HTTP/1.0\r\n")
	return err
}

// WriteStatusLine writes "HTTP/1.1 SP code SP reason CRLF".
func WriteStatusLine(w io.Writer, status Status) error {
	_, err := io.WriteString(w, "HTTP/1.1 "+itoa(uint64(status.Code()))+" "+status.Reason()+"\r\n")
	return err
}

// transferEncodingWireName matches the wire name used for the
// Transfer-Encoding slot in both header collections.
const transferEncodingWireName = "Transfer-Encoding"

// writeResponseHeaderFrame writes headers' entries in slot order, moving
// Transfer-Encoding (if present) to the end, then the blank-line
// terminator. Spec §4.7: "Transfer-Encoding is always the last header
// when present."
func writeResponseHeaderFrame(w io.Writer, headers *ResponseHeaders) error {
	entries := headers.Iter()
	for i, e := range entries {
		if e.name == transferEncodingWireName && i != len(entries)-1 {
			te := e
			entries = append(append([]headerEntry{}, entries[:i]...), entries[i+1:]...)
			entries = append(entries, te)
			break
		}
	}
	for _, e := range entries {
		if err := writeHeaderLine(w, e.name, e.value); err != nil {
			return err
		}
	}
	return writeHeaderTerminator(w)
}

// writeRequestHeaderFrame writes a request's headers verbatim in slot
// order; requests have no Transfer-Encoding-last rule to apply.
func writeRequestHeaderFrame(w io.Writer, headers *RequestHeaders) error {
	return headers.WriteAll(w)
}

// ChooseResponseFraming implements spec §4.7's body-framing choice: if the
// handler set Content-Length, leave Transfer-Encoding unset and write the
// body verbatim; otherwise set Transfer-Encoding: chunked and put the
// stream into chunked write mode. Must be called before the header frame
// is written.
func ChooseResponseFraming(headers *ResponseHeaders, stream *BufferedStream) {
	if headers.ContentLength != nil {
		stream.SetWritingChunkedBody(false)
		return
	}
	headers.TransferEncoding = []TransferCoding{{Chunked: true}}
	stream.SetWritingChunkedBody(true)
}
