package httpcore

import (
	"io"
	"time"
)

// RequestHeaders is the typed HeaderCollection for requests (spec §3/§4.5):
// one optional slot per known request header (38, in the order declared
// below), plus a sorted extension map for anything else. Field order is
// also iteration order.
type RequestHeaders struct {
	CacheControl       *string
	Connection         []string
	Date               *time.Time
	Pragma             *string
	Trailer            *string
	TransferEncoding   []TransferCoding
	Upgrade            *string
	Via                *string
	Warning            *string
	Accept             *string
	AcceptCharset      *string
	AcceptEncoding     *string
	AcceptLanguage     *string
	Authorization      *string
	Expect             *string
	From               *string
	Host               *Host
	IfMatch            *string
	IfModifiedSince    *time.Time
	IfNoneMatch        *string
	IfRange            *string
	IfUnmodifiedSince  *time.Time
	MaxForwards        *uint64
	ProxyAuthorization *string
	Range              *string
	Referer            *string
	TE                 *string
	UserAgent          *string
	Allow              []Method
	ContentEncoding    *string
	ContentLanguage    *string
	ContentLength      *uint64
	ContentLocation    *string
	ContentMD5         *string
	ContentRange       *string
	ContentType        *MediaType
	Expires            *time.Time
	LastModified       *time.Time

	ext extensionHeaders
}

type requestHeaderSlot struct {
	wireName string
	lower    string
	parse    func(*RequestHeaders, *HeaderValueReader) error
	render   func(*RequestHeaders) (string, bool)
}

func strSlot(name string, get func(*RequestHeaders) **string) requestHeaderSlot {
	return requestHeaderSlot{
		wireName: name,
		lower:    asciiLowerString(name),
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			s, err := h.CollectString()
			if err != nil {
				return err
			}
			*get(rh) = &s
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			p := *get(rh)
			if p == nil {
				return "", false
			}
			return *p, true
		},
	}
}

func commaListSlot(name string, get func(*RequestHeaders) *[]string) requestHeaderSlot {
	return requestHeaderSlot{
		wireName: name,
		lower:    asciiLowerString(name),
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			list, err := h.SplitCommaList()
			if err != nil {
				return err
			}
			*get(rh) = list
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			list := *get(rh)
			if list == nil {
				return "", false
			}
			return joinComma(list), true
		},
	}
}

func dateSlot(name string, get func(*RequestHeaders) **time.Time) requestHeaderSlot {
	return requestHeaderSlot{
		wireName: name,
		lower:    asciiLowerString(name),
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			t, err := ReadHTTPDate(h)
			if err != nil {
				return err
			}
			*get(rh) = &t
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			p := *get(rh)
			if p == nil {
				return "", false
			}
			return FormatHTTPDate(*p), true
		},
	}
}

var requestHeaderSlots = []requestHeaderSlot{
	strSlot("Cache-Control", func(r *RequestHeaders) **string { return &r.CacheControl }),
	commaListSlot("Connection", func(r *RequestHeaders) *[]string { return &r.Connection }),
	dateSlot("Date", func(r *RequestHeaders) **time.Time { return &r.Date }),
	strSlot("Pragma", func(r *RequestHeaders) **string { return &r.Pragma }),
	strSlot("Trailer", func(r *RequestHeaders) **string { return &r.Trailer }),
	{
		wireName: "Transfer-Encoding",
		lower:    "transfer-encoding",
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			list, err := ReadTransferCodingList(h)
			if err != nil {
				return err
			}
			rh.TransferEncoding = list
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			if rh.TransferEncoding == nil {
				return "", false
			}
			return joinTransferCodings(rh.TransferEncoding), true
		},
	},
	strSlot("Upgrade", func(r *RequestHeaders) **string { return &r.Upgrade }),
	strSlot("Via", func(r *RequestHeaders) **string { return &r.Via }),
	strSlot("Warning", func(r *RequestHeaders) **string { return &r.Warning }),
	strSlot("Accept", func(r *RequestHeaders) **string { return &r.Accept }),
	strSlot("Accept-Charset", func(r *RequestHeaders) **string { return &r.AcceptCharset }),
	strSlot("Accept-Encoding", func(r *RequestHeaders) **string { return &r.AcceptEncoding }),
	strSlot("Accept-Language", func(r *RequestHeaders) **string { return &r.AcceptLanguage }),
	strSlot("Authorization", func(r *RequestHeaders) **string { return &r.Authorization }),
	strSlot("Expect", func(r *RequestHeaders) **string { return &r.Expect }),
	strSlot("From", func(r *RequestHeaders) **string { return &r.From }),
	{
		wireName: "Host",
		lower:    "host",
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			host, err := ReadHost(h)
			if err != nil {
				return err
			}
			rh.Host = &host
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			if rh.Host == nil {
				return "", false
			}
			return rh.Host.String(), true
		},
	},
	strSlot("If-Match", func(r *RequestHeaders) **string { return &r.IfMatch }),
	dateSlot("If-Modified-Since", func(r *RequestHeaders) **time.Time { return &r.IfModifiedSince }),
	strSlot("If-None-Match", func(r *RequestHeaders) **string { return &r.IfNoneMatch }),
	strSlot("If-Range", func(r *RequestHeaders) **string { return &r.IfRange }),
	dateSlot("If-Unmodified-Since", func(r *RequestHeaders) **time.Time { return &r.IfUnmodifiedSince }),
	{
		wireName: "Max-Forwards",
		lower:    "max-forwards",
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			s, err := h.CollectString()
			if err != nil {
				return err
			}
			n, err := parseUint(s)
			if err != nil {
				return err
			}
			rh.MaxForwards = &n
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			if rh.MaxForwards == nil {
				return "", false
			}
			return itoa(*rh.MaxForwards), true
		},
	},
	strSlot("Proxy-Authorization", func(r *RequestHeaders) **string { return &r.ProxyAuthorization }),
	strSlot("Range", func(r *RequestHeaders) **string { return &r.Range }),
	strSlot("Referer", func(r *RequestHeaders) **string { return &r.Referer }),
	strSlot("TE", func(r *RequestHeaders) **string { return &r.TE }),
	strSlot("User-Agent", func(r *RequestHeaders) **string { return &r.UserAgent }),
	{
		wireName: "Allow",
		lower:    "allow",
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			methods, err := readMethodList(h)
			if err != nil {
				return err
			}
			rh.Allow = methods
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			if rh.Allow == nil {
				return "", false
			}
			return joinMethods(rh.Allow), true
		},
	},
	strSlot("Content-Encoding", func(r *RequestHeaders) **string { return &r.ContentEncoding }),
	strSlot("Content-Language", func(r *RequestHeaders) **string { return &r.ContentLanguage }),
	{
		wireName: "Content-Length",
		lower:    "content-length",
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
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
		render: func(rh *RequestHeaders) (string, bool) {
			if rh.ContentLength == nil {
				return "", false
			}
			return itoa(*rh.ContentLength), true
		},
	},
	strSlot("Content-Location", func(r *RequestHeaders) **string { return &r.ContentLocation }),
	strSlot("Content-MD5", func(r *RequestHeaders) **string { return &r.ContentMD5 }),
	strSlot("Content-Range", func(r *RequestHeaders) **string { return &r.ContentRange }),
	{
		wireName: "Content-Type",
		lower:    "content-type",
		parse: func(rh *RequestHeaders, h *HeaderValueReader) error {
			mt, err := ReadMediaType(h)
			if err != nil {
				return err
			}
			rh.ContentType = &mt
			return nil
		},
		render: func(rh *RequestHeaders) (string, bool) {
			if rh.ContentType == nil {
				return "", false
			}
			return rh.ContentType.String(), true
		},
	},
	dateSlot("Expires", func(r *RequestHeaders) **time.Time { return &r.Expires }),
	dateSlot("Last-Modified", func(r *RequestHeaders) **time.Time { return &r.LastModified }),
}

func slotByLower(lower string) (requestHeaderSlot, bool) {
	for _, s := range requestHeaderSlots {
		if s.lower == lower {
			return s, true
		}
	}
	return requestHeaderSlot{}, false
}

// InsertRaw implements spec §4.5's insert_raw: dispatch by case-insensitive
// name to the matching value-type parser (or the extension map), failing
// if a known header's value isn't fully consumed by its parser.
func (rh *RequestHeaders) InsertRaw(name string, value []byte) error {
	canonical, err := normaliseHeaderName(name)
	if err != nil {
		return err
	}
	if slot, ok := slotByLower(asciiLowerString(name)); ok {
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

// Iter yields headers in spec §4.5 order: declared slots in declaration
// order (skipping absent ones), then extension entries in sorted key
// order.
func (rh *RequestHeaders) Iter() []headerEntry {
	var entries []headerEntry
	for _, slot := range requestHeaderSlots {
		if v, ok := slot.render(rh); ok {
			entries = append(entries, headerEntry{name: slot.wireName, value: v})
		}
	}
	entries = append(entries, rh.ext.sortedEntries()...)
	return entries
}

// WriteAll writes every header as "Name: Value\r\n", then the blank-line
// terminator.
func (rh *RequestHeaders) WriteAll(w io.Writer) error {
	for _, e := range rh.Iter() {
		if err := writeHeaderLine(w, e.name, e.value); err != nil {
			return err
		}
	}
	return writeHeaderTerminator(w)
}

// byteSliceSource adapts a []byte to HeaderValueByteSource, for parsing a
// header value that has already been fully read off the wire (e.g. a
// trailer, or a caller-supplied value via InsertRaw).
type byteSliceSource struct {
	buf []byte
	pos int
}

func (b *byteSliceSource) ReadByte() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}
