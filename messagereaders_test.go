package httpcore

import (
	"io"
	"testing"
)

func TestReadRequestLineS1(t *testing.T) {
	r := &sliceByteReader{buf: []byte("GET / HTTP/1.1\r\n")}
	method, uri, major, minor, err := ReadRequestLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != MethodGet {
		t.Errorf("method = %v, want GET", method)
	}
	if path, ok := uri.Path(); !ok || path != "/" {
		t.Errorf("uri = %v, want AbsolutePath(\"/\")", uri)
	}
	if major != 1 || minor != 1 {
		t.Errorf("version = (%d,%d), want (1,1)", major, minor)
	}
}

func TestReadRequestLineS2OptionsStar(t *testing.T) {
	r := &sliceByteReader{buf: []byte("OPTIONS * HTTP/1.1\r\n")}
	method, uri, major, minor, err := ReadRequestLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != MethodOptions || !uri.IsStar() || major != 1 || minor != 1 {
		t.Errorf("got (%v, %v, %d, %d)", method, uri, major, minor)
	}
}

func TestReadRequestLineS3ConnectAuthority(t *testing.T) {
	r := &sliceByteReader{buf: []byte("CONNECT example.com HTTP/1.1\r\n")}
	method, uri, major, minor, err := ReadRequestLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target, ok := uri.AuthorityTarget()
	if method != MethodConnect || !ok || target != "example.com" || major != 1 || minor != 1 {
		t.Errorf("got (%v, %v, %d, %d)", method, uri, major, minor)
	}
}

func TestReadRequestLineS4ExtensionHTTP09(t *testing.T) {
	r := &sliceByteReader{buf: []byte("FOO /\r\n")}
	method, uri, major, minor, err := ReadRequestLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name, ok := method.ExtensionName()
	path, pathOk := uri.Path()
	if !ok || name != "FOO" || !pathOk || path != "/" || major != 0 || minor != 9 {
		t.Errorf("got (%v, %v, %d, %d)", method, uri, major, minor)
	}
}

func TestReadRequestLineS5Malformed(t *testing.T) {
	r := &sliceByteReader{buf: []byte("GE,T / HTTP/1.1\r\n")}
	_, _, _, _, err := ReadRequestLine(r)
	if err == nil {
		t.Fatal("expected error for malformed method")
	}
}

func TestReadRequestLineBareLF09(t *testing.T) {
	r := &sliceByteReader{buf: []byte("GET /\n")}
	_, _, major, minor, err := ReadRequestLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 0 || minor != 9 {
		t.Errorf("version = (%d,%d), want (0,9)", major, minor)
	}
}

func TestReadStatusLineS6(t *testing.T) {
	r := &sliceByteReader{buf: []byte("HTTP/1.1 200 OK\r\n")}
	major, minor, status, err := ReadStatusLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != 1 || minor != 1 || status.Code() != 200 || status.Reason() != "OK" {
		t.Errorf("got (%d,%d,%v)", major, minor, status)
	}
}

func TestReadStatusLineTeapot(t *testing.T) {
	r := &sliceByteReader{buf: []byte("HTTP/1.1 418 I'm a teapot\r\n")}
	_, _, status, err := ReadStatusLine(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Code() != 418 || !status.IsRegistered() {
		t.Errorf("got %v", status)
	}
}

func TestReadStatusLineBadCode(t *testing.T) {
	r := &sliceByteReader{buf: []byte("HTTP/1.1 2 OK\r\n")}
	_, _, _, err := ReadStatusLine(r)
	if err == nil {
		t.Fatal("expected error for short status code")
	}
}

func TestReadRequestHeaderListS8(t *testing.T) {
	r := &sliceByteReader{buf: []byte("Content-Length: 42\r\n\r\n")}
	headers := &RequestHeaders{}
	if err := ReadRequestHeaderList(r, headers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers.ContentLength == nil || *headers.ContentLength != 42 {
		t.Errorf("ContentLength = %v, want 42", headers.ContentLength)
	}
}

func TestReadRequestHeaderListDropsMalformedValue(t *testing.T) {
	r := &sliceByteReader{buf: []byte("Content-Length: not-a-number\r\nHost: example.com\r\n\r\n")}
	headers := &RequestHeaders{}
	if err := ReadRequestHeaderList(r, headers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers.ContentLength != nil {
		t.Errorf("ContentLength should have been dropped, got %v", headers.ContentLength)
	}
	if headers.Host == nil || headers.Host.Name != "example.com" {
		t.Errorf("Host = %v, want example.com", headers.Host)
	}
}

func TestReadRequestHeaderListMalformedSyntaxFatal(t *testing.T) {
	r := &sliceByteReader{buf: []byte("Bad Name: value\r\n\r\n")}
	headers := &RequestHeaders{}
	err := ReadRequestHeaderList(r, headers)
	if err == nil {
		t.Fatal("expected fatal error for malformed header name")
	}
}

func TestRequestBodyReaderContentLength(t *testing.T) {
	n := uint64(5)
	headers := &RequestHeaders{ContentLength: &n}
	r := &sliceBulkReader{buf: []byte("helloXXXXX")}
	body := RequestBodyReader(r, headers)
	out, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("got %q, want %q", out, "hello")
	}
}

func TestRequestBodyReaderChunked(t *testing.T) {
	headers := &RequestHeaders{TransferEncoding: []TransferCoding{{Chunked: true}}}
	r := &sliceBulkReader{buf: []byte("5\r\nhello\r\n0\r\n\r\n")}
	body := RequestBodyReader(r, headers)
	out, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("got %q, want %q", out, "hello")
	}
}

func TestRequestBodyReaderEmpty(t *testing.T) {
	headers := &RequestHeaders{}
	r := &sliceBulkReader{buf: []byte("ignored")}
	body := RequestBodyReader(r, headers)
	out, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %q, want empty", out)
	}
}

func TestResponseBodyReaderReadUntilClose(t *testing.T) {
	headers := &ResponseHeaders{}
	r := &sliceBulkReader{buf: []byte("all of it")}
	body := ResponseBodyReader(r, headers)
	out, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "all of it" {
		t.Errorf("got %q, want %q", out, "all of it")
	}
}
