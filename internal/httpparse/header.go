package httpparse

import (
	"bytes"
	"fmt"
	"strconv"
)

// ConnectionState is the value of a parsed Connection header.
type ConnectionState int

const (
	ConnectionKeepAlive ConnectionState = iota
	ConnectionClose
	ConnectionUpgrade
)

// HeaderKind distinguishes the variants of Header below.
type HeaderKind int

const (
	HeaderContentLength HeaderKind = iota
	HeaderHost
	HeaderTransferEncoding
	HeaderConnection
	HeaderKeepAlive
	HeaderUnknown
)

// Header is a parsed request header line, tagged by Kind. Only the
// field matching Kind is meaningful; this mirrors the small closed set
// of headers the request driver actually inspects. Every header line
// is also kept verbatim as Raw; forwarding to the upstream does not
// use Raw but writes the line reader's read buffer, which holds every
// header byte-for-byte.
type Header struct {
	Kind            HeaderKind
	ContentLength   int
	Host            []byte
	Connection      ConnectionState
	KeepAliveSecond int
	Raw             []byte // the full original line, for Unknown and forwarding
}

// ErrHeaderTooLarge is returned when a numeric header value is not a
// non-negative decimal integer that fits in an int: too large,
// negative, or not a number at all.
var ErrHeaderTooLarge = fmt.Errorf("httpparse: header value too large")

// ParseHeader parses one raw header line, including its trailing
// CRLF.
func ParseHeader(line []byte) (Header, error) {
	raw := line
	content := trimCRLF(line)

	colon := bytes.IndexByte(content, ':')
	if colon < 0 {
		return Header{Kind: HeaderUnknown, Raw: raw}, nil
	}
	name := content[:colon]
	value := content[colon+1:]
	value = bytes.TrimLeft(value, " ")

	// Field names are matched by exact byte equality, not
	// case-insensitively: recognized headers are an ASCII exact match
	// per this parser's grammar. A field spelled "host" or "HOST"
	// falls through to HeaderUnknown and is still forwarded verbatim
	// as part of the read buffer, it just isn't specially interpreted.
	switch {
	case bytes.Equal(name, []byte("Content-Length")):
		n, err := parseDecimal(value)
		if err != nil {
			return Header{}, err
		}
		return Header{Kind: HeaderContentLength, ContentLength: n, Raw: raw}, nil
	case bytes.Equal(name, []byte("Host")):
		return Header{Kind: HeaderHost, Host: value, Raw: raw}, nil
	case bytes.Equal(name, []byte("Transfer-Encoding")):
		return Header{Kind: HeaderTransferEncoding, Raw: raw}, nil
	case bytes.Equal(name, []byte("Connection")):
		state, err := parseConnectionState(value)
		if err != nil {
			return Header{}, err
		}
		return Header{Kind: HeaderConnection, Connection: state, Raw: raw}, nil
	case bytes.Equal(name, []byte("Keep-Alive")):
		n, err := parseDecimal(value)
		if err != nil {
			return Header{}, err
		}
		return Header{Kind: HeaderKeepAlive, KeepAliveSecond: n, Raw: raw}, nil
	default:
		return Header{Kind: HeaderUnknown, Raw: raw}, nil
	}
}

func parseConnectionState(value []byte) (ConnectionState, error) {
	switch {
	case bytes.Equal(value, []byte("keep-alive")):
		return ConnectionKeepAlive, nil
	case bytes.Equal(value, []byte("close")):
		return ConnectionClose, nil
	case bytes.Equal(value, []byte("upgrade")):
		return ConnectionUpgrade, nil
	default:
		return 0, fmt.Errorf("httpparse: unrecognized Connection value %q", value)
	}
}

// parseDecimal parses a header's numeric value as ASCII decimal, per
// HTTP/1.1 (RFC 9110 §8.6). This is a deliberate departure from the
// implementation this parser descends from, which decoded
// Content-Length as a big-endian base-256 byte string — a
// non-standard scheme unrelated to how real HTTP clients encode the
// header. ASCII decimal is what the wire format actually is.
func parseDecimal(value []byte) (int, error) {
	n, err := strconv.Atoi(string(bytes.TrimSpace(value)))
	if err != nil || n < 0 {
		return 0, ErrHeaderTooLarge
	}
	return n, nil
}

// IsBlankLine reports whether a raw line read by the header stage is
// the empty CRLF terminating the header block.
func IsBlankLine(line []byte) bool {
	return len(line) <= 2
}
