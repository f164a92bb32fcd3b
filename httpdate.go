package httpcore

import (
	"errors"
	"time"
)

// HTTP-date layouts per RFC 7231 §7.1.1.1. RFC1123 is preferred and the
// only form this engine emits; the other two are accepted on read for
// interoperability with older clients, matching the original's use of
// strptime against all three historical formats.
const (
	httpDateRFC1123 = "Mon, 02 Jan 2006 15:04:05 GMT"
	httpDateRFC850  = "Monday, 02-Jan-06 15:04:05 GMT"
	httpDateANSIC   = "Mon Jan _2 15:04:05 2006"
)

var errMalformedHTTPDate = errors.New("malformed HTTP-date")

// ParseHTTPDate parses an HTTP-date in any of the three historical
// formats, always returning a UTC time.
func ParseHTTPDate(s string) (time.Time, error) {
	for _, layout := range []string{httpDateRFC1123, httpDateRFC850} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	if isStrictAsctime(s) {
		if t, err := time.ParseInLocation(httpDateANSIC, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, newError(KindMalformedHeaderValue, errMalformedHTTPDate)
}

// isStrictAsctime rejects the single-space day form ("Jan 6") that Go's
// "_2" layout directive would otherwise accept alongside the correct
// two-space form ("Jan  6"). spec.md §3.3.1: a single-digit day must be
// preceded by two spaces, not one. Asctime dates are always exactly 24
// bytes: "www mmm dd hh:mm:ss yyyy", with the day field's first byte
// either a digit or the pad space.
func isStrictAsctime(s string) bool {
	if len(s) != 24 {
		return false
	}
	if s[3] != ' ' || s[7] != ' ' || s[10] != ' ' || s[19] != ' ' {
		return false
	}
	if s[8] != ' ' && !isDigit(s[8]) {
		return false
	}
	return isDigit(s[9])
}

// FormatHTTPDate renders t in the preferred RFC 1123 form.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(httpDateRFC1123)
}

// ReadHTTPDate parses an HTTP-date header value.
func ReadHTTPDate(h *HeaderValueReader) (time.Time, error) {
	s, err := h.CollectString()
	if err != nil {
		return time.Time{}, err
	}
	return ParseHTTPDate(s)
}
