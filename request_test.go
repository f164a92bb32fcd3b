package httpcore

import (
	"errors"
	"io"
	"testing"
)

func TestLoadRequestSimpleGet(t *testing.T) {
	r := &sliceBulkReader{buf: []byte("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n")}
	req, err := LoadRequest(r, "127.0.0.1:1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != MethodGet {
		t.Errorf("method = %v, want GET", req.Method)
	}
	if path, ok := req.RequestURI.Path(); !ok || path != "/index.html" {
		t.Errorf("uri = %v", req.RequestURI)
	}
	if req.Headers.Host == nil || req.Headers.Host.Name != "example.com" {
		t.Errorf("Host = %v", req.Headers.Host)
	}
	if req.RemoteAddr != "127.0.0.1:1234" {
		t.Errorf("RemoteAddr = %q", req.RemoteAddr)
	}
	out, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty body, got %q", out)
	}
}

func TestLoadRequestHTTP11WithoutHostRejected(t *testing.T) {
	r := &sliceBulkReader{buf: []byte("GET / HTTP/1.1\r\n\r\n")}
	_, err := LoadRequest(r, "")
	if err == nil {
		t.Fatal("expected error for HTTP/1.1 request without Host")
	}
}

func TestLoadRequestHTTP10WithoutHostAllowed(t *testing.T) {
	r := &sliceBulkReader{buf: []byte("GET / HTTP/1.0\r\n\r\n")}
	req, err := LoadRequest(r, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Headers.Host != nil {
		t.Errorf("Host = %v, want nil", req.Headers.Host)
	}
}

func TestLoadRequestUnsupportedVersionRejected(t *testing.T) {
	r := &sliceBulkReader{buf: []byte("GET / HTTP/2.0\r\n\r\n")}
	_, err := LoadRequest(r, "")
	if err == nil {
		t.Fatal("expected error for unsupported HTTP version")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindUnsupportedVersion {
		t.Errorf("got %v, want KindUnsupportedVersion", err)
	}
}

func TestLoadRequestHTTP09NoHeaders(t *testing.T) {
	r := &sliceBulkReader{buf: []byte("GET /\r\n")}
	req, err := LoadRequest(r, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Major != 0 || req.Minor != 9 {
		t.Errorf("version = (%d,%d), want (0,9)", req.Major, req.Minor)
	}
	if !req.CloseConnection {
		t.Error("expected HTTP/0.9 to close the connection")
	}
}

func TestResolveKeepAliveHTTP10Default(t *testing.T) {
	if !resolveKeepAlive(1, 0, nil) {
		t.Error("HTTP/1.0 with no Connection header should close")
	}
}

func TestResolveKeepAliveHTTP10KeepAliveToken(t *testing.T) {
	if resolveKeepAlive(1, 0, []string{"keep-alive"}) {
		t.Error("Connection: keep-alive should keep HTTP/1.0 open")
	}
}

func TestResolveKeepAliveHTTP11Default(t *testing.T) {
	if resolveKeepAlive(1, 1, nil) {
		t.Error("HTTP/1.1 with no Connection header should stay open")
	}
}

func TestResolveKeepAliveHTTP11CloseToken(t *testing.T) {
	if !resolveKeepAlive(1, 1, []string{"close"}) {
		t.Error("Connection: close should close HTTP/1.1")
	}
}

func TestResolveKeepAliveCloseSticksOverLaterKeepAlive(t *testing.T) {
	if !resolveKeepAlive(1, 1, []string{"close", "keep-alive"}) {
		t.Error("close must stick even if keep-alive follows")
	}
}

func TestLoadRequestRejectsContentLengthAndChunkedTogether(t *testing.T) {
	input := "POST / HTTP/1.1\r\nHost: example.com\r\nContent-Length: 6\r\n" +
		"Transfer-Encoding: chunked\r\n\r\n0\r\n\r\n"
	r := &sliceBulkReader{buf: []byte(input)}
	_, err := LoadRequest(r, "")
	if err == nil {
		t.Fatal("expected error for Content-Length + chunked Transfer-Encoding")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindBadSyntax {
		t.Errorf("got %v, want KindBadSyntax", err)
	}
}

func TestLoadRequestChunkedBodyExposesTrailer(t *testing.T) {
	input := "POST /upload HTTP/1.1\r\nHost: example.com\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nWiki\r\n0\r\nX-Checksum: abc123\r\n\r\n"
	r := &sliceBulkReader{buf: []byte(input)}
	req, err := LoadRequest(r, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "Wiki" {
		t.Errorf("body = %q", body)
	}
	if req.Trailer == nil {
		t.Fatal("expected trailer to be populated after reading the body")
	}
	v, ok := req.Trailer.ext.get("X-Checksum")
	if !ok || v != "abc123" {
		t.Errorf("got (%q, %v), want (\"abc123\", true)", v, ok)
	}
}
