package httpcore

import (
	"bytes"
	"strings"
	"testing"
)

func TestResponseDefaultsTo200(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	if resp.Status != StatusOK {
		t.Errorf("Status = %v, want 200 OK", resp.Status)
	}
}

func TestResponseImplicitHeaderFrameOnFirstWrite(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	if _, err := resp.Write([]byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.HeadersWritten() {
		t.Error("expected headers to be written on first Write")
	}
	if err := resp.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(underlying.String(), "HTTP/1.1 200 OK\r\n") {
		t.Errorf("got %q", underlying.String())
	}
}

func TestResponseSetStatusBeforeWrite(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	resp.SetStatus(StatusNotFound)
	if _, err := resp.Write([]byte("missing")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := resp.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(underlying.String(), "HTTP/1.1 404 Not Found\r\n") {
		t.Errorf("got %q", underlying.String())
	}
}

func TestResponseSetStatusAfterWritePanics(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	if _, err := resp.Write([]byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic mutating status after headers are written")
		}
	}()
	resp.SetStatus(StatusNotFound)
}

func TestResponseContentLengthSuppressesChunking(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	n := uint64(5)
	resp.Headers.ContentLength = &n
	if _, err := resp.Write([]byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := resp.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(underlying.String(), "Transfer-Encoding") {
		t.Errorf("did not expect Transfer-Encoding, got %q", underlying.String())
	}
	if !strings.HasSuffix(underlying.String(), "hello") {
		t.Errorf("got %q", underlying.String())
	}
}

func TestResponseWriteContinueThenNormalStatus(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	if err := resp.WriteContinue(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.HeadersWritten() {
		t.Error("WriteContinue must not mark the final header frame as written")
	}
	if _, err := resp.Write([]byte("body")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := resp.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(underlying.String(), "HTTP/1.1 100 Continue\r\n") {
		t.Errorf("got %q", underlying.String())
	}
	if !strings.Contains(underlying.String(), "HTTP/1.1 200 OK\r\n") {
		t.Errorf("got %q", underlying.String())
	}
}

func TestResponseTryWriteHeadersIdempotent(t *testing.T) {
	var underlying bytes.Buffer
	stream := NewBufferedStreamSize(&underlying, 64*1024, false)
	defer stream.Release()

	resp := NewResponse(stream)
	if err := resp.TryWriteHeaders(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstLen := underlying.Len()
	if err := resp.TryWriteHeaders(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if underlying.Len() != firstLen {
		t.Error("TryWriteHeaders should be a no-op once headers are written")
	}
}
