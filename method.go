package httpcore

import "errors"

// MaxMethodLen bounds the length of an extension method name read from the
// wire (spec §6: "Maximum method: 64 bytes").
const MaxMethodLen = 64

type methodKind uint8

const (
	methodGet methodKind = iota
	methodHead
	methodPost
	methodPut
	methodDelete
	methodConnect
	methodOptions
	methodTrace
	methodPatch
	methodExtension
)

// Method is a sum of the nine registered HTTP verbs plus an open-ended
// Extension variant. The zero value equals MethodGet; use one of the
// package-level Method* values or NewExtensionMethod.
type Method struct {
	kind methodKind
	ext  string
}

// The nine registered methods, as comparable, reusable values.
var (
	MethodGet     = Method{kind: methodGet}
	MethodHead    = Method{kind: methodHead}
	MethodPost    = Method{kind: methodPost}
	MethodPut     = Method{kind: methodPut}
	MethodDelete  = Method{kind: methodDelete}
	MethodConnect = Method{kind: methodConnect}
	MethodOptions = Method{kind: methodOptions}
	MethodTrace   = Method{kind: methodTrace}
	MethodPatch   = Method{kind: methodPatch}
)

var errMethodTooLong = errors.New("method name exceeds maximum length")

// NewExtensionMethod builds an extension Method from an arbitrary verb
// name. The name must be a valid RFC 7230 token of at most MaxMethodLen
// bytes; a name matching one of the nine registered verbs yields the
// corresponding Method* value instead of an extension.
func NewExtensionMethod(name string) (Method, error) {
	if len(name) > MaxMethodLen {
		return Method{}, newError(KindBadSyntax, errMethodTooLong)
	}
	if !IsToken(name) {
		return Method{}, newError(KindBadSyntax, errors.New("method name is not a valid token"))
	}
	if m, ok := registeredMethodByName(name); ok {
		return m, nil
	}
	return Method{kind: methodExtension, ext: name}, nil
}

// IsExtension reports whether m is an Extension(name) method.
func (m Method) IsExtension() bool { return m.kind == methodExtension }

// ExtensionName returns the extension verb name and true, or ("", false)
// if m is one of the nine registered methods.
func (m Method) ExtensionName() (string, bool) {
	if m.kind == methodExtension {
		return m.ext, true
	}
	return "", false
}

// String returns the wire token for m.
func (m Method) String() string {
	switch m.kind {
	case methodGet:
		return "GET"
	case methodHead:
		return "HEAD"
	case methodPost:
		return "POST"
	case methodPut:
		return "PUT"
	case methodDelete:
		return "DELETE"
	case methodConnect:
		return "CONNECT"
	case methodOptions:
		return "OPTIONS"
	case methodTrace:
		return "TRACE"
	case methodPatch:
		return "PATCH"
	case methodExtension:
		return m.ext
	default:
		return ""
	}
}

func registeredMethodByName(name string) (Method, bool) {
	switch name {
	case "GET":
		return MethodGet, true
	case "HEAD":
		return MethodHead, true
	case "POST":
		return MethodPost, true
	case "PUT":
		return MethodPut, true
	case "DELETE":
		return MethodDelete, true
	case "CONNECT":
		return MethodConnect, true
	case "OPTIONS":
		return MethodOptions, true
	case "TRACE":
		return MethodTrace, true
	case "PATCH":
		return MethodPatch, true
	default:
		return Method{}, false
	}
}

// readMethod implements the method recognizer of spec §4.1: a decision
// tree keyed on successive bytes, built from the nine registered verbs.
// On a byte that doesn't match any remaining candidate but is still a
// valid token byte, it falls through to accumulating an extension method
// name up to MaxMethodLen bytes, terminated by SP. Any byte that cannot
// appear in a token fails with KindBadSyntax. The terminating SP is
// consumed; readMethod never leaves SP unread on success.
func readMethod(r byteReader) (Method, error) {
	// candidates holds the verbs still consistent with the bytes read so
	// far, alongside their remaining suffix.
	candidates := []string{
		"GET", "HEAD", "POST", "PUT", "DELETE",
		"CONNECT", "OPTIONS", "TRACE", "PATCH",
	}
	var prefix []byte

	for {
		b, err := r.ReadByte()
		if err != nil {
			return Method{}, wrapIO(err)
		}

		if b == sp {
			// A registered verb is only complete when exactly one
			// candidate remains and its suffix has been fully matched.
			for _, c := range candidates {
				if len(c) == len(prefix) {
					m, _ := registeredMethodByName(c)
					return m, nil
				}
			}
			// SP with no exact match: treat what's been read as a short
			// (possibly empty) extension method, per the "match one of a
			// set or capture extension" shape of §4.1. An empty method
			// name is invalid.
			if len(prefix) == 0 {
				return Method{}, newError(KindBadSyntax, errors.New("empty method"))
			}
			return Method{kind: methodExtension, ext: string(prefix)}, nil
		}

		if !isTokenOctet(b) {
			return Method{}, newError(KindBadSyntax, errors.New("invalid byte in method"))
		}

		next := prefix
		matched := false
		for _, c := range candidates {
			if len(next) < len(c) && c[len(next)] == b {
				matched = true
				break
			}
		}
		if matched {
			// Narrow the candidate set to those still agreeing with b.
			kept := candidates[:0:0]
			for _, c := range candidates {
				if len(next) < len(c) && c[len(next)] == b {
					kept = append(kept, c)
				}
			}
			candidates = kept
			prefix = append(prefix, b)
			if len(prefix) > MaxMethodLen {
				return Method{}, newError(KindBadSyntax, errMethodTooLong)
			}
			continue
		}

		// Mismatch: fall through to extension-method accumulation, which
		// continues reading token bytes until SP.
		prefix = append(prefix, b)
		if len(prefix) > MaxMethodLen {
			return Method{}, newError(KindBadSyntax, errMethodTooLong)
		}
		candidates = nil
		for {
			b, err := r.ReadByte()
			if err != nil {
				return Method{}, wrapIO(err)
			}
			if b == sp {
				if len(prefix) == 0 {
					return Method{}, newError(KindBadSyntax, errors.New("empty method"))
				}
				return Method{kind: methodExtension, ext: string(prefix)}, nil
			}
			if !isTokenOctet(b) {
				return Method{}, newError(KindBadSyntax, errors.New("invalid byte in method"))
			}
			prefix = append(prefix, b)
			if len(prefix) > MaxMethodLen {
				return Method{}, newError(KindBadSyntax, errMethodTooLong)
			}
		}
	}
}
