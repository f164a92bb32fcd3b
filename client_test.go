package httpcore

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestClientDoGetRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := NewServer(Config{
		Handler: func(req *Request, resp *Response) error {
			if req.Method != MethodGet {
				t.Errorf("server saw method %v, want GET", req.Method)
			}
			resp.SetStatus(StatusOK)
			body := []byte("hello from server")
			resp.Headers.ContentLength = uint64Ptr(uint64(len(body)))
			_, err := resp.Write(body)
			return err
		},
	})
	go srv.Serve(ln)
	defer srv.Close()

	uri := AbsolutePath("/greet")
	client := NewClient()
	resp, err := client.Do(ln.Addr().String(), MethodGet, uri, nil, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Status.Code() != 200 {
		t.Errorf("status = %d, want 200", resp.Status.Code())
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(out) != "hello from server" {
		t.Errorf("body = %q", out)
	}
}

func TestClientDoPostWithBody(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	var gotBody string
	srv := NewServer(Config{
		Handler: func(req *Request, resp *Response) error {
			b, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			gotBody = string(b)
			resp.SetStatus(StatusOK)
			resp.Headers.ContentLength = uint64Ptr(0)
			_, err = resp.Write(nil)
			return err
		},
	})
	go srv.Serve(ln)
	defer srv.Close()

	uri := AbsolutePath("/upload")
	client := NewClient()
	body := strings.NewReader("payload-data")
	headers := &RequestHeaders{}
	length := uint64(len("payload-data"))
	headers.ContentLength = &length
	resp, err := client.Do(ln.Addr().String(), MethodPost, uri, headers, body)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	io.ReadAll(resp.Body)

	time.Sleep(50 * time.Millisecond)
	if gotBody != "payload-data" {
		t.Errorf("server observed body = %q, want %q", gotBody, "payload-data")
	}
}
