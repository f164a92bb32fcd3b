package httpcore

import "errors"

// MediaType is `type "/" subtype *( ";" parameter )`, e.g. Content-Type's
// value. Parameters retain their source order. Grounded on
// original_source/src/libhttp/headers/content_type.rs.
type MediaType struct {
	Type       string
	Subtype    string
	Parameters []headerParam
}

// Param returns the value of the named parameter (case-insensitive key
// match) and true, or ("", false) if absent.
func (m MediaType) Param(key string) (string, bool) {
	for _, p := range m.Parameters {
		if asciiEqualFold(p.key, key) {
			return p.value, true
		}
	}
	return "", false
}

func (m MediaType) String() string {
	s := m.Type + "/" + m.Subtype
	for _, p := range m.Parameters {
		s += ";" + p.key + "=" + maybeQuote(p.value)
	}
	return s
}

// maybeQuote quotes v as a quoted-string if it isn't a valid bare token.
func maybeQuote(v string) string {
	if IsToken(v) {
		return v
	}
	out := make([]byte, 0, len(v)+2)
	out = append(out, '"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, v[i])
	}
	out = append(out, '"')
	return string(out)
}

// ReadMediaType parses a MediaType from a header value, per
// content_type.rs's from_stream: token "/" token *parameters, with the
// whole value consumed.
func ReadMediaType(h *HeaderValueReader) (MediaType, error) {
	typ, err := h.ReadToken()
	if err != nil {
		return MediaType{}, err
	}
	if err := h.expectByte('/'); err != nil {
		return MediaType{}, newError(KindMalformedHeaderValue, errors.New("media type missing '/'"))
	}
	subtype, err := h.ReadToken()
	if err != nil {
		return MediaType{}, err
	}
	params, err := h.ReadParameters()
	if err != nil {
		return MediaType{}, err
	}
	if err := h.Drain(); err != nil {
		return MediaType{}, err
	}
	return MediaType{Type: typ, Subtype: subtype, Parameters: params}, nil
}
