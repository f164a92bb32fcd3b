package httpcore

import (
	"errors"
	"io"
	"net"
)

// Logger is the minimal logging contract the accept loop and connection
// handler depend on — the engine never imports a logging package
// directly (spec §2's ambient-stack decision: logging is an external
// collaborator). Satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// Handler processes one request and writes a response. Returning an error
// closes the connection after the response (if any) has been flushed,
// mirroring the teacher's Connection.Handler contract.
type Handler func(*Request, *Response) error

// ConnectionConfig configures a single Connection (spec §2's ambient
// Config/ConnectionConfig pair, grounded on the teacher's
// http11.ConnectionConfig).
type ConnectionConfig struct {
	// BufferSize sizes the per-connection BufferedStream's read and write
	// buffers. Zero means DefaultBufferSize.
	BufferSize int

	// MaxRequests caps the number of requests served on one connection
	// before it is closed regardless of keep-alive. Zero means unlimited.
	MaxRequests int
}

// Connection serves HTTP/1.x requests read from a single accepted
// net.Conn, one at a time, reusing the connection across requests per the
// keep-alive policy resolved by LoadRequest. Grounded on the teacher's
// http11.Connection.Serve loop, stripped of its lock-free pooled-object
// bookkeeping (this package pools only the byte buffers, via pool.go; the
// Request/Response values themselves are ordinary per-call allocations).
type Connection struct {
	conn        net.Conn
	stream      *BufferedStream
	handler     Handler
	logger      Logger
	stats       *Stats
	maxRequests int
}

// NewConnection wraps conn, ready to Serve with handler.
func NewConnection(conn net.Conn, config ConnectionConfig, handler Handler, logger Logger, stats *Stats) *Connection {
	size := config.BufferSize
	if size == 0 {
		size = DefaultBufferSize
	}
	return &Connection{
		conn:        conn,
		stream:      NewBufferedStreamSize(conn, size, false),
		handler:     handler,
		logger:      logger,
		stats:       stats,
		maxRequests: config.MaxRequests,
	}
}

// Serve runs the request loop until the connection closes, then releases
// the connection's pooled buffers. Spec §4.8: "Per-request steps:
// Request::load(stream) constructs a request and a completion status; the
// handler runs only on Ok, otherwise a status-only response is sent... If
// request.close_connection is true... the task closes the connection;
// else it loops."
func (c *Connection) Serve() {
	defer c.stream.Release()
	defer c.conn.Close()

	requestNum := 0
	for {
		if c.maxRequests > 0 && requestNum >= c.maxRequests {
			return
		}
		req, loadErr := LoadRequest(c.stream, c.conn.RemoteAddr().String())
		if loadErr != nil {
			if isCleanClose(loadErr) {
				return
			}
			c.logf("httpcore: request load error: %v", loadErr)
			if c.stats != nil {
				c.stats.requestFailed()
			}
			c.sendStatusOnly(statusForLoadError(loadErr))
			return
		}

		requestNum++
		if c.stats != nil {
			c.stats.requestHandled()
		}

		resp := NewResponse(c.stream)
		handlerErr := c.handler(req, resp)
		if err := resp.Finish(); err != nil {
			c.logf("httpcore: response flush error: %v", err)
			if c.stats != nil {
				c.stats.connectionFailed()
			}
			return
		}
		if handlerErr != nil {
			c.logf("httpcore: handler error: %v", handlerErr)
			if c.stats != nil {
				c.stats.requestFailed()
			}
			return
		}
		if req.CloseConnection {
			return
		}
		if err := drainToEOF(req.Body); err != nil {
			c.logf("httpcore: draining request body: %v", err)
			return
		}
	}
}

// sendStatusOnly writes a minimal "status, Content-Length: 0" response for
// an exchange that failed before a handler could run (spec §4.8).
func (c *Connection) sendStatusOnly(status Status) {
	headers := &ResponseHeaders{}
	zero := uint64(0)
	headers.ContentLength = &zero
	if err := WriteStatusLine(c.stream, status); err != nil {
		return
	}
	if err := writeResponseHeaderFrame(c.stream, headers); err != nil {
		return
	}
	_ = c.stream.Flush()
}

func (c *Connection) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// isCleanClose reports whether err just means the peer closed the
// connection between requests, not a protocol violation worth a response.
func isCleanClose(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

// statusForLoadError maps a LoadRequest failure to the response status
// used for its status-only reply (spec §7's kind→status table via
// StatusFor, with the Host-missing case folding into BadRequest since
// errMissingHostHeader is wrapped as KindBadSyntax).
func statusForLoadError(err error) Status {
	var e *Error
	if errors.As(err, &e) {
		return StatusFor(e.Kind)
	}
	return StatusBadRequest
}
