package driver

import "errors"

// RequestError is the closed set of terminal errors the request
// driver can report. Each one ends the request by closing the client
// connection without writing any response.
type RequestError struct {
	kind RequestErrorKind
	err  error
}

// RequestErrorKind identifies which of the three terminal failure
// modes a RequestError represents.
type RequestErrorKind int

const (
	// ClientIncompatible covers a malformed start-line or header
	// block, or a Host the router has no route for.
	ClientIncompatible RequestErrorKind = iota
	// ServerIncompatible covers any failure dialing, reading from, or
	// writing to the upstream.
	ServerIncompatible
	// BadProtocol covers a request the driver refuses to forward at
	// all, currently: any Transfer-Encoding header.
	BadProtocol
)

func (k RequestErrorKind) String() string {
	switch k {
	case ClientIncompatible:
		return "client_incompatible"
	case ServerIncompatible:
		return "server_incompatible"
	case BadProtocol:
		return "bad_protocol"
	default:
		return "unknown"
	}
}

func newRequestError(kind RequestErrorKind, err error) *RequestError {
	return &RequestError{kind: kind, err: err}
}

func (e *RequestError) Kind() RequestErrorKind { return e.kind }

func (e *RequestError) Error() string {
	if e.err == nil {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.err.Error()
}

func (e *RequestError) Unwrap() error { return e.err }

// ErrUnknownHost is wrapped into a ClientIncompatible error when the
// router has no route for the request's Host.
var ErrUnknownHost = errors.New("driver: no route for host")

// ErrTransferEncodingRejected is wrapped into a BadProtocol error: the
// proxy never forwards a request carrying Transfer-Encoding, since it
// does not implement chunked-body framing.
var ErrTransferEncodingRejected = errors.New("driver: Transfer-Encoding is not supported")
