package httpcore

import "errors"

// TransferCoding is `"chunked" | token *( ";" parameter )`, the per-item
// grammar of the Transfer-Encoding header. Grounded on
// original_source/src/libhttp/headers/transfer_encoding.rs.
type TransferCoding struct {
	Chunked    bool
	Token      string
	Parameters []headerParam
}

func (t TransferCoding) String() string {
	if t.Chunked {
		return "chunked"
	}
	s := t.Token
	for _, p := range t.Parameters {
		s += ";" + p.key + "=" + maybeQuote(p.value)
	}
	return s
}

// ReadTransferCodingList parses the comma-separated list that is the
// entire value of a Transfer-Encoding header.
func ReadTransferCodingList(h *HeaderValueReader) ([]TransferCoding, error) {
	var result []TransferCoding
	for {
		token, err := h.ReadToken()
		if err != nil {
			return nil, err
		}
		if asciiEqualFold(token, "chunked") {
			result = append(result, TransferCoding{Chunked: true})
		} else {
			params, err := h.ReadParameters()
			if err != nil {
				return nil, err
			}
			result = append(result, TransferCoding{Token: token, Parameters: params})
		}
		more, err := consumeCommaLWS(h)
		if err != nil {
			return nil, err
		}
		if !more {
			return result, nil
		}
	}
}

// EndsInChunked reports whether the last coding in the list is "chunked",
// the only case spec §4.6 treats as a framing signal.
func EndsInChunked(codings []TransferCoding) bool {
	if len(codings) == 0 {
		return false
	}
	return codings[len(codings)-1].Chunked
}

// consumeCommaLWS skips optional LWS, then either consumes a "," (plus any
// following LWS) and returns true, or — if the value is exhausted —
// returns false. Grounded on the original's consume_comma_lws /
// CommaConsumed|EndOfValue|ErrCommaNotFound trichotomy, collapsed here
// into (bool, error) since "comma not found but bytes remain" and
// "malformed" are both simply errors for our purposes.
func consumeCommaLWS(h *HeaderValueReader) (bool, error) {
	b, ok, err := h.skipOptionalLWS()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if b != ',' {
		h.hasPending = true
		h.pending = b
		return false, newError(KindMalformedHeaderValue, errExpectedComma)
	}
	next, ok, err := h.skipOptionalLWS()
	if err != nil {
		return false, err
	}
	if ok {
		// Put back the first byte of the next element.
		h.hasPending = true
		h.pending = next
	}
	return true, nil
}

var errExpectedComma = errors.New("expected ',' between transfer-codings")
