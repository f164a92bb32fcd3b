package httpcore

import (
	"io"
	"time"
)

// acceptableRangesKind distinguishes Accept-Ranges' "none" token from a
// comma-less run of range-unit tokens (spec §4.5).
type acceptableRangesKind uint8

const (
	acceptableRangesNone acceptableRangesKind = iota
	acceptableRangesUnits
)

// AcceptableRanges is the Accept-Ranges response header value.
type AcceptableRanges struct {
	kind  acceptableRangesKind
	units []string
}

// NoAcceptableRanges is the literal "none" value.
var NoAcceptableRanges = AcceptableRanges{kind: acceptableRangesNone}

// AcceptableRangeUnits builds an AcceptableRanges from a list of range-unit
// tokens (e.g. "bytes").
func AcceptableRangeUnits(units []string) AcceptableRanges {
	return AcceptableRanges{kind: acceptableRangesUnits, units: units}
}

func (a AcceptableRanges) String() string {
	if a.kind == acceptableRangesNone {
		return "none"
	}
	s := ""
	for i, u := range a.units {
		if i > 0 {
			s += ", "
		}
		s += u
	}
	return s
}

func readAcceptableRanges(h *HeaderValueReader) (AcceptableRanges, error) {
	units, err := h.SplitCommaList()
	if err != nil {
		return AcceptableRanges{}, err
	}
	if len(units) == 1 && asciiEqualFold(units[0], "none") {
		return NoAcceptableRanges, nil
	}
	return AcceptableRangeUnits(units), nil
}

// ResponseHeaders is the typed HeaderCollection for responses (spec
// §3/§4.5): the shared general/entity headers plus the 10 response-only
// headers, 29 known headers total, in the order declared below.
type ResponseHeaders struct {
	CacheControl     *string
	Connection       []string
	Date             *time.Time
	Pragma           *string
	Trailer          *string
	TransferEncoding []TransferCoding
	Upgrade          *string
	Via              *string
	Warning          *string

	Allow           []Method
	ContentEncoding *string
	ContentLanguage *string
	ContentLength   *uint64
	ContentLocation *string
	ContentMD5      *string
	ContentRange    *string
	ContentType     *MediaType
	Expires         *time.Time
	LastModified    *time.Time

	AcceptPatch        *string
	AcceptRanges       *AcceptableRanges
	Age                *uint64
	ETag               *EntityTag
	Location           *string
	ProxyAuthenticate  *string
	RetryAfter         *string
	Server             *string
	Vary               *string
	WWWAuthenticate    *string

	ext extensionHeaders
}

type responseHeaderSlot struct {
	wireName string
	lower    string
	parse    func(*ResponseHeaders, *HeaderValueReader) error
	render   func(*ResponseHeaders) (string, bool)
}

func rStrSlot(name string, get func(*ResponseHeaders) **string) responseHeaderSlot {
	return responseHeaderSlot{
		wireName: name,
		lower:    asciiLowerString(name),
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			s, err := h.CollectString()
			if err != nil {
				return err
			}
			*get(rh) = &s
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			p := *get(rh)
			if p == nil {
				return "", false
			}
			return *p, true
		},
	}
}

func rCommaListSlot(name string, get func(*ResponseHeaders) *[]string) responseHeaderSlot {
	return responseHeaderSlot{
		wireName: name,
		lower:    asciiLowerString(name),
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			list, err := h.SplitCommaList()
			if err != nil {
				return err
			}
			*get(rh) = list
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			list := *get(rh)
			if list == nil {
				return "", false
			}
			return joinComma(list), true
		},
	}
}

func rDateSlot(name string, get func(*ResponseHeaders) **time.Time) responseHeaderSlot {
	return responseHeaderSlot{
		wireName: name,
		lower:    asciiLowerString(name),
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			t, err := ReadHTTPDate(h)
			if err != nil {
				return err
			}
			*get(rh) = &t
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			p := *get(rh)
			if p == nil {
				return "", false
			}
			return FormatHTTPDate(*p), true
		},
	}
}

var responseHeaderSlots = []responseHeaderSlot{
	rStrSlot("Cache-Control", func(r *ResponseHeaders) **string { return &r.CacheControl }),
	rCommaListSlot("Connection", func(r *ResponseHeaders) *[]string { return &r.Connection }),
	rDateSlot("Date", func(r *ResponseHeaders) **time.Time { return &r.Date }),
	rStrSlot("Pragma", func(r *ResponseHeaders) **string { return &r.Pragma }),
	rStrSlot("Trailer", func(r *ResponseHeaders) **string { return &r.Trailer }),
	{
		wireName: "Transfer-Encoding",
		lower:    "transfer-encoding",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			list, err := ReadTransferCodingList(h)
			if err != nil {
				return err
			}
			rh.TransferEncoding = list
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.TransferEncoding == nil {
				return "", false
			}
			return joinTransferCodings(rh.TransferEncoding), true
		},
	},
	rStrSlot("Upgrade", func(r *ResponseHeaders) **string { return &r.Upgrade }),
	rStrSlot("Via", func(r *ResponseHeaders) **string { return &r.Via }),
	rStrSlot("Warning", func(r *ResponseHeaders) **string { return &r.Warning }),
	{
		wireName: "Allow",
		lower:    "allow",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			methods, err := readMethodList(h)
			if err != nil {
				return err
			}
			rh.Allow = methods
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.Allow == nil {
				return "", false
			}
			return joinMethods(rh.Allow), true
		},
	},
	rStrSlot("Content-Encoding", func(r *ResponseHeaders) **string { return &r.ContentEncoding }),
	rStrSlot("Content-Language", func(r *ResponseHeaders) **string { return &r.ContentLanguage }),
	{
		wireName: "Content-Length",
		lower:    "content-length",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			s, err := h.CollectString()
			if err != nil {
				return err
			}
			n, err := parseUint(s)
			if err != nil {
				return err
			}
			rh.ContentLength = &n
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.ContentLength == nil {
				return "", false
			}
			return itoa(*rh.ContentLength), true
		},
	},
	rStrSlot("Content-Location", func(r *ResponseHeaders) **string { return &r.ContentLocation }),
	rStrSlot("Content-MD5", func(r *ResponseHeaders) **string { return &r.ContentMD5 }),
	rStrSlot("Content-Range", func(r *ResponseHeaders) **string { return &r.ContentRange }),
	{
		wireName: "Content-Type",
		lower:    "content-type",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			mt, err := ReadMediaType(h)
			if err != nil {
				return err
			}
			rh.ContentType = &mt
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.ContentType == nil {
				return "", false
			}
			return rh.ContentType.String(), true
		},
	},
	rDateSlot("Expires", func(r *ResponseHeaders) **time.Time { return &r.Expires }),
	rDateSlot("Last-Modified", func(r *ResponseHeaders) **time.Time { return &r.LastModified }),
	rStrSlot("Accept-Patch", func(r *ResponseHeaders) **string { return &r.AcceptPatch }),
	{
		wireName: "Accept-Ranges",
		lower:    "accept-ranges",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			ar, err := readAcceptableRanges(h)
			if err != nil {
				return err
			}
			rh.AcceptRanges = &ar
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.AcceptRanges == nil {
				return "", false
			}
			return rh.AcceptRanges.String(), true
		},
	},
	{
		wireName: "Age",
		lower:    "age",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			s, err := h.CollectString()
			if err != nil {
				return err
			}
			n, err := parseUint(s)
			if err != nil {
				return err
			}
			rh.Age = &n
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.Age == nil {
				return "", false
			}
			return itoa(*rh.Age), true
		},
	},
	{
		wireName: "ETag",
		lower:    "etag",
		parse: func(rh *ResponseHeaders, h *HeaderValueReader) error {
			tag, err := ReadEntityTag(h)
			if err != nil {
				return err
			}
			rh.ETag = &tag
			return nil
		},
		render: func(rh *ResponseHeaders) (string, bool) {
			if rh.ETag == nil {
				return "", false
			}
			return rh.ETag.String(), true
		},
	},
	rStrSlot("Location", func(r *ResponseHeaders) **string { return &r.Location }),
	rStrSlot("Proxy-Authenticate", func(r *ResponseHeaders) **string { return &r.ProxyAuthenticate }),
	rStrSlot("Retry-After", func(r *ResponseHeaders) **string { return &r.RetryAfter }),
	rStrSlot("Server", func(r *ResponseHeaders) **string { return &r.Server }),
	rStrSlot("Vary", func(r *ResponseHeaders) **string { return &r.Vary }),
	rStrSlot("WWW-Authenticate", func(r *ResponseHeaders) **string { return &r.WWWAuthenticate }),
}

func responseSlotByLower(lower string) (responseHeaderSlot, bool) {
	for _, s := range responseHeaderSlots {
		if s.lower == lower {
			return s, true
		}
	}
	return responseHeaderSlot{}, false
}

// InsertRaw implements spec §4.5's insert_raw for responses.
func (rh *ResponseHeaders) InsertRaw(name string, value []byte) error {
	canonical, err := normaliseHeaderName(name)
	if err != nil {
		return err
	}
	if slot, ok := responseSlotByLower(asciiLowerString(name)); ok {
		hv := newHeaderValueReader(&byteSliceSource{buf: value})
		if err := slot.parse(rh, hv); err != nil {
			return err
		}
		return verifyConsumed(hv)
	}
	hv := newHeaderValueReader(&byteSliceSource{buf: value})
	s, err := hv.CollectString()
	if err != nil {
		return err
	}
	rh.ext.insert(canonical, s)
	return nil
}

// Iter yields headers in declaration order, then sorted extension entries.
func (rh *ResponseHeaders) Iter() []headerEntry {
	var entries []headerEntry
	for _, slot := range responseHeaderSlots {
		if v, ok := slot.render(rh); ok {
			entries = append(entries, headerEntry{name: slot.wireName, value: v})
		}
	}
	entries = append(entries, rh.ext.sortedEntries()...)
	return entries
}

// WriteAll writes every header as "Name: Value\r\n", then the blank-line
// terminator.
func (rh *ResponseHeaders) WriteAll(w io.Writer) error {
	for _, e := range rh.Iter() {
		if err := writeHeaderLine(w, e.name, e.value); err != nil {
			return err
		}
	}
	return writeHeaderTerminator(w)
}
