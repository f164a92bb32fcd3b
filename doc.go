// Package httpcore implements the core of an HTTP/1.x protocol engine:
// request/response parsing and serialization on top of arbitrary
// bidirectional byte streams, plus a minimal concurrent server harness and
// a client mirror that share the same message, header and framing
// machinery.
//
// The package intentionally keeps the request-line/status-line reader, the
// typed header system, the chunked-aware buffered stream and the
// connection lifecycle together: they are tightly coupled, and splitting
// them across packages would only hide that coupling behind an import
// graph.
package httpcore
