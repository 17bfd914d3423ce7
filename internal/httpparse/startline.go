package httpparse

import (
	"bytes"
	"fmt"
)

// Method is an HTTP request method, matched exactly against the
// incoming bytes (no case-insensitive comparison, per the wire
// format).
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPatch   Method = "PATCH"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

// ErrUnrecognizedMethod is returned when a start-line's method field
// does not exactly match one of the nine known methods.
var ErrUnrecognizedMethod = fmt.Errorf("httpparse: unrecognized method")

func parseMethod(b []byte) (Method, error) {
	switch Method(b) {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead,
		MethodOptions, MethodPatch, MethodConnect, MethodTrace:
		return Method(b), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedMethod, b)
	}
}

// Version is the HTTP version token from a start-line. Every token
// starting with "HTTP" is mapped to one of these variants;
// VersionUnknown covers any such token this parser doesn't otherwise
// recognize rather than rejecting the request outright. Tokens not
// starting with "HTTP" are rejected.
type Version string

const (
	HTTP09         Version = "HTTP/0.9"
	HTTP10         Version = "HTTP/1.0"
	HTTP11         Version = "HTTP/1.1"
	HTTP2          Version = "HTTP/2"
	HTTP3          Version = "HTTP/3"
	VersionUnknown Version = "Unknown"
)

// StartLine is the parsed first line of an HTTP request.
type StartLine struct {
	Method  Method
	Version Version
	Path    []byte
}

// ErrBadStartLine is returned when a start-line does not split into
// exactly three space-separated fields.
var ErrBadStartLine = fmt.Errorf("httpparse: malformed start-line")

// ParseStartLine parses a raw start-line, including its trailing
// CRLF, into its three fields.
func ParseStartLine(line []byte) (StartLine, error) {
	trimmed := trimCRLF(line)
	fields := bytes.Split(trimmed, []byte{' '})
	if len(fields) != 3 {
		return StartLine{}, ErrBadStartLine
	}

	method, err := parseMethod(fields[0])
	if err != nil {
		return StartLine{}, err
	}

	version, err := parseVersion(fields[2])
	if err != nil {
		return StartLine{}, err
	}

	return StartLine{
		Method:  method,
		Version: version,
		Path:    fields[1],
	}, nil
}

// parseVersion maps a version token to its enum value. Only a token
// that doesn't even start with "HTTP" is rejected outright; anything
// recognizable as an HTTP version but outside the five named ones
// (e.g. a future "HTTP/1.2") maps to VersionUnknown rather than
// failing the request.
func parseVersion(b []byte) (Version, error) {
	switch string(b) {
	case string(HTTP09):
		return HTTP09, nil
	case string(HTTP10):
		return HTTP10, nil
	case string(HTTP11):
		return HTTP11, nil
	case string(HTTP2):
		return HTTP2, nil
	case string(HTTP3):
		return HTTP3, nil
	default:
		if bytes.HasPrefix(b, []byte("HTTP")) {
			return VersionUnknown, nil
		}
		return "", fmt.Errorf("httpparse: unrecognized HTTP version %q", b)
	}
}

func trimCRLF(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	b = bytes.TrimSuffix(b, []byte{'\r'})
	return b
}
