package httpcore

import "errors"

// Host is `host [ ":" port ]`, the value of the Host header (spec §3).
type Host struct {
	Name string
	Port uint16
	// HasPort reports whether a port was present on the wire, because
	// port 0 is otherwise indistinguishable from "no port".
	HasPort bool
}

func (h Host) String() string {
	if h.HasPort {
		return h.Name + ":" + itoa(uint64(h.Port))
	}
	return h.Name
}

var errEmptyHostName = errors.New("empty host name")

// ReadHost parses a Host header value: everything up to an optional
// trailing ":" port is the name (IPv6 literals, wrapped in brackets per
// RFC 7230 §2.7.1, are taken verbatim up to their closing bracket).
func ReadHost(h *HeaderValueReader) (Host, error) {
	var name []byte
	inBracket := false
	for {
		b, ok, err := h.Next()
		if err != nil {
			return Host{}, err
		}
		if !ok {
			if len(name) == 0 {
				return Host{}, newError(KindMalformedHeaderValue, errEmptyHostName)
			}
			return Host{Name: string(name)}, nil
		}
		switch {
		case b == '[':
			inBracket = true
			name = append(name, b)
		case b == ']':
			inBracket = false
			name = append(name, b)
		case b == ':' && !inBracket:
			port, err := readDecimalString(h)
			if err != nil {
				return Host{}, err
			}
			if len(name) == 0 {
				return Host{}, newError(KindMalformedHeaderValue, errEmptyHostName)
			}
			return Host{Name: string(name), Port: port, HasPort: true}, nil
		default:
			name = append(name, b)
		}
	}
}

// readDecimalString reads the remainder of the value as a decimal port
// number, since HeaderValueReader (unlike byteReader) has no poke-back for
// non-numeric termination; the port field always runs to the end.
func readDecimalString(h *HeaderValueReader) (uint16, error) {
	var n uint64
	var count int
	for {
		b, ok, err := h.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if !isDigit(b) {
			return 0, newError(KindInvalidNumber, errors.New("non-digit byte in port"))
		}
		n = n*10 + uint64(b-'0')
		if n > 65535 {
			return 0, newError(KindInvalidNumber, errNumberOverflow)
		}
		count++
	}
	if count == 0 {
		return 0, newError(KindInvalidNumber, errZeroLengthNumber)
	}
	return uint16(n), nil
}
