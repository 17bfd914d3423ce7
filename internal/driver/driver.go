// Package driver drives a single accepted connection through request
// parsing, routing, and the upstream dial, then relays bytes
// bidirectionally between client and upstream for the life of the
// connection.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"syscall"

	"github.com/google/uuid"

	"github.com/ocx/edgeproxy/internal/httpparse"
	"github.com/ocx/edgeproxy/internal/router"
)

// chunkSize bounds how many body bytes are copied from client to
// upstream per read/write pair, once the buffered prefix has been
// forwarded.
const chunkSize = 16384

// Router is the subset of router.Table the driver depends on, so
// tests can substitute a fake routing table.
type Router interface {
	Route(host []byte) (*router.Balancer, bool)
}

// Handle drives conn through the full request lifecycle: parse,
// route, dial, forward, relay. It always closes conn before
// returning. Handle returns nothing: any request error is logged here;
// Handle never panics on a malformed or hostile client.
func Handle(conn net.Conn, routes Router) {
	id := uuid.New()
	log := slog.With("conn_id", id.String(), "remote", conn.RemoteAddr().String())
	defer conn.Close()

	upstream, err := drive(conn, routes, log)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			log.Warn("request rejected", "kind", reqErr.Kind().String(), "error", reqErr.Error())
		} else {
			log.Warn("request failed", "error", err.Error())
		}
		return
	}
	if upstream == nil {
		return
	}
	defer upstream.Close()

	relay(conn, upstream, log)
}

// drive parses the request, routes it, dials the upstream, and
// forwards the buffered prefix plus request body. It returns the
// dialed upstream connection on success, ready for the caller to
// relay bidirectionally.
func drive(conn net.Conn, routes Router, log *slog.Logger) (net.Conn, error) {
	start := httpparse.NewStartLineStage(conn)
	if _, err := start.Next(); err != nil {
		return nil, newRequestError(ClientIncompatible, err)
	}

	headers := start.Skip()

	var host []byte
	contentLength := 0
	keepAlive := 2
	sawTransferEncoding := false

	for {
		h, ok, err := headers.Next()
		if err != nil {
			return nil, newRequestError(ClientIncompatible, err)
		}
		if !ok {
			break
		}
		switch h.Kind {
		case httpparse.HeaderHost:
			host = h.Host
		case httpparse.HeaderContentLength:
			contentLength = h.ContentLength
		case httpparse.HeaderTransferEncoding:
			sawTransferEncoding = true
		case httpparse.HeaderConnection:
			if h.Connection == httpparse.ConnectionUpgrade {
				keepAlive = 86400
			}
		case httpparse.HeaderKeepAlive:
			keepAlive = h.KeepAliveSecond
		}
	}
	_ = keepAlive // tracked for parity with the upstream request model; no timeout wiring yet

	if sawTransferEncoding {
		return nil, newRequestError(BadProtocol, ErrTransferEncodingRejected)
	}

	balancer, ok := routes.Route(host)
	if !ok {
		return nil, newRequestError(ClientIncompatible, fmt.Errorf("%w: %q", ErrUnknownHost, host))
	}

	body := headers.Skip()
	_, readBuffer, unreadBuffer := body.Parts()

	addr := balancer.Next()
	upstream, err := net.Dial("tcp", addr.String())
	if err != nil {
		return nil, newRequestError(ServerIncompatible, err)
	}

	if err := forwardPrefix(upstream, conn, readBuffer, unreadBuffer, contentLength, log); err != nil {
		upstream.Close()
		return nil, newRequestError(ServerIncompatible, err)
	}

	return upstream, nil
}

// forwardPrefix writes the bytes already consumed while parsing the
// request (readBuffer), then as much of the already-read-ahead body
// prefix (unreadBuffer) as the declared Content-Length covers, then
// copies any remaining body bytes straight from client to upstream in
// fixed-size chunks.
func forwardPrefix(upstream net.Conn, client net.Conn, readBuffer, unreadBuffer []byte, contentLength int, log *slog.Logger) error {
	if _, err := upstream.Write(readBuffer); err != nil {
		return err
	}

	prefixLen := contentLength
	if prefixLen > len(unreadBuffer) {
		prefixLen = len(unreadBuffer)
	}
	if prefixLen > 0 {
		if _, err := upstream.Write(unreadBuffer[:prefixLen]); err != nil {
			return err
		}
	}

	remaining := contentLength - prefixLen
	buf := make([]byte, chunkSize)
	for remaining > 0 {
		want := chunkSize
		if want > remaining {
			want = remaining
		}
		n, err := client.Read(buf[:want])
		if n > 0 {
			if _, werr := upstream.Write(buf[:n]); werr != nil {
				return werr
			}
			remaining -= n
		}
		if err != nil {
			if err == io.EOF && remaining == 0 {
				break
			}
			return err
		}
	}
	return nil
}

// relay copies bytes bidirectionally between client and upstream
// until either side closes or reports a recoverable network error.
// Any other error is a programmer error and is logged as such.
func relay(client, upstream net.Conn, log *slog.Logger) {
	done := make(chan struct{}, 2)

	go func() {
		copyUntilClosed(upstream, client, log, "client->upstream")
		done <- struct{}{}
	}()
	go func() {
		copyUntilClosed(client, upstream, log, "upstream->client")
		done <- struct{}{}
	}()

	<-done
	client.Close()
	upstream.Close()
	<-done
}

func copyUntilClosed(dst io.Writer, src io.Reader, log *slog.Logger, direction string) {
	_, err := io.Copy(dst, src)
	if err != nil && !isRecoverable(err) {
		log.Error("relay failed", "direction", direction, "error", err.Error())
	}
}

// isRecoverable reports whether err represents one of the connection
// states the relay treats as a normal end of traffic rather than a
// programmer error: the peer refusing, resetting, or already closing
// the connection, or an unexpected EOF mid-read.
func isRecoverable(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNREFUSED)
}
