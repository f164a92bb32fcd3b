package httpcore

import (
	"bytes"
	"errors"
	"net/url"
)

type requestURIKind uint8

const (
	requestURIStar requestURIKind = iota
	requestURIAbsoluteURI
	requestURIAbsolutePath
	requestURIAuthority
)

// RequestURI is the tagged union of spec §3: `*`, an absolute URI, an
// absolute path (with optional query), or an authority (CONNECT target).
// The zero value equals Star; build one with ParseRequestURI.
type RequestURI struct {
	kind   requestURIKind
	path   string
	url    *url.URL
	target string
}

// Star is the `OPTIONS *` request target.
var Star = RequestURI{kind: requestURIStar}

// AbsolutePath builds a RequestURI carrying a path (and optional query
// string, already part of path e.g. "/x?y=1").
func AbsolutePath(path string) RequestURI {
	return RequestURI{kind: requestURIAbsolutePath, path: path}
}

// AbsoluteURIOf builds a RequestURI wrapping a parsed absolute URL, as
// used by proxies.
func AbsoluteURIOf(u *url.URL) RequestURI {
	return RequestURI{kind: requestURIAbsoluteURI, url: u}
}

// Authority builds a RequestURI carrying a bare "host:port" authority, as
// used by CONNECT.
func Authority(target string) RequestURI {
	return RequestURI{kind: requestURIAuthority, target: target}
}

// IsStar, IsAbsolutePath, IsAuthority report which variant r holds.
func (r RequestURI) IsStar() bool         { return r.kind == requestURIStar }
func (r RequestURI) IsAbsolutePath() bool { return r.kind == requestURIAbsolutePath }
func (r RequestURI) IsAuthority() bool    { return r.kind == requestURIAuthority }
func (r RequestURI) IsAbsoluteURI() bool  { return r.kind == requestURIAbsoluteURI }

// Path returns the path and ok=true if r is an AbsolutePath.
func (r RequestURI) Path() (string, bool) {
	if r.kind == requestURIAbsolutePath {
		return r.path, true
	}
	return "", false
}

// URL returns the parsed URL and ok=true if r is an AbsoluteURI.
func (r RequestURI) URL() (*url.URL, bool) {
	if r.kind == requestURIAbsoluteURI {
		return r.url, true
	}
	return nil, false
}

// AuthorityTarget returns the raw authority string and ok=true if r is an
// Authority.
func (r RequestURI) AuthorityTarget() (string, bool) {
	if r.kind == requestURIAuthority {
		return r.target, true
	}
	return "", false
}

// String renders r back to its wire form.
func (r RequestURI) String() string {
	switch r.kind {
	case requestURIStar:
		return "*"
	case requestURIAbsolutePath:
		return r.path
	case requestURIAuthority:
		return r.target
	case requestURIAbsoluteURI:
		return r.url.String()
	default:
		return ""
	}
}

var errEmptyRequestURI = errors.New("empty request-uri")

// ParseRequestURI implements spec §3's parsing rule: `"*"` becomes Star; a
// leading `/` becomes AbsolutePath; a string containing `/` is tried as an
// AbsoluteURI (failing the whole parse if it doesn't parse as a URL);
// anything else is an Authority (the CONNECT form).
func ParseRequestURI(s string) (RequestURI, error) {
	if s == "" {
		return RequestURI{}, newError(KindBadSyntax, errEmptyRequestURI)
	}
	if s == "*" {
		return Star, nil
	}
	if s[0] == '/' {
		return AbsolutePath(s), nil
	}
	if bytes.IndexByte([]byte(s), '/') >= 0 {
		u, err := url.ParseRequestURI(s)
		if err != nil {
			return RequestURI{}, newError(KindBadSyntax, err)
		}
		return AbsoluteURIOf(u), nil
	}
	return Authority(s), nil
}

// MaxRequestURILen bounds the bytes read for a Request-URI before the
// reader fails with KindURITooLong (spec §6).
const MaxRequestURILen = 1024

// readRequestURI accumulates bytes up to MaxRequestURILen until a byte
// satisfying end is seen (not consumed; callers decide what to do with
// SP/CR/LF), then parses the accumulated bytes via ParseRequestURI.
func readRequestURI(r byteReader, end endPredicate) (RequestURI, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return RequestURI{}, wrapIO(err)
		}
		if end(b) {
			if err := r.PokeByte(b); err != nil {
				return RequestURI{}, wrapIO(err)
			}
			break
		}
		buf = append(buf, b)
		if len(buf) > MaxRequestURILen {
			return RequestURI{}, newError(KindURITooLong, errors.New("request-uri too long"))
		}
	}
	return ParseRequestURI(string(buf))
}
