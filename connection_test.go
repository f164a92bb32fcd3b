package httpcore

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

type discardLogger struct{}

func (discardLogger) Printf(format string, args ...any) {}

func TestConnectionServeSingleRequestThenClose(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	handled := make(chan struct{}, 1)
	handler := func(req *Request, resp *Response) error {
		resp.SetStatus(StatusOK)
		resp.Headers.ContentLength = uint64Ptr(2)
		_, err := resp.Write([]byte("hi"))
		handled <- struct{}{}
		return err
	}

	stats := NewStats()
	conn := NewConnection(server, ConnectionConfig{}, handler, discardLogger{}, stats)
	done := make(chan struct{})
	go func() {
		conn.Serve()
		close(done)
	}()

	client.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := client.Write([]byte("GET / HTTP/1.0\r\n\r\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}

	out, err := io.ReadAll(client)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if !strings.HasPrefix(string(out), "HTTP/1.1 200 OK\r\n") {
		t.Errorf("response = %q", out)
	}
	if !strings.HasSuffix(string(out), "hi") {
		t.Errorf("response missing body: %q", out)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve never returned after HTTP/1.0 request")
	}

	if got := stats.TotalRequests.Load(); got != 1 {
		t.Errorf("TotalRequests = %d, want 1", got)
	}
}

func TestConnectionServeMalformedRequestLineSendsStatusOnly(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	handler := func(req *Request, resp *Response) error {
		t.Fatal("handler should not run for a malformed request")
		return nil
	}

	conn := NewConnection(server, ConnectionConfig{}, handler, discardLogger{}, NewStats())
	done := make(chan struct{})
	go func() {
		conn.Serve()
		close(done)
	}()

	client.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := client.Write([]byte("\x01\x02\x03 bogus request\r\n\r\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}

	out, err := io.ReadAll(client)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if !strings.HasPrefix(string(out), "HTTP/1.1 400 ") {
		t.Errorf("response = %q, want 400 status line", out)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve never returned")
	}
}

func uint64Ptr(v uint64) *uint64 { return &v }
