package httpparse

import (
	"io"

	"github.com/ocx/edgeproxy/internal/streaming"
)

// StartLineStage is the entry point into the parser: a freshly
// accepted connection has read nothing yet and must parse its
// start-line before anything else.
type StartLineStage struct {
	reader *streaming.LineReader
}

// NewStartLineStage wraps a connection for request parsing.
func NewStartLineStage(conn io.ReadWriteCloser) StartLineStage {
	return StartLineStage{reader: streaming.NewLineReader(conn)}
}

// Next parses the start-line. It may only be called once per
// connection; a second call on the same stage would read the next
// line (the first header) and try to parse it as a start-line.
func (s StartLineStage) Next() (StartLine, error) {
	line := s.reader.NextLine()
	return ParseStartLine(line)
}

// Skip moves the pipeline into the header-field stage. It reads
// nothing itself, so the start-line must already have been consumed
// by Next.
func (s StartLineStage) Skip() HeaderFieldStage {
	return HeaderFieldStage{reader: s.reader}
}

// HeaderFieldStage parses header lines one at a time until the blank
// line terminating the header block.
type HeaderFieldStage struct {
	reader *streaming.LineReader
}

// Next parses the next header line. It returns ok=false once the
// blank line terminating the header block is reached; the pipeline
// must then call Skip to move into the body stage.
func (s HeaderFieldStage) Next() (header Header, ok bool, err error) {
	line := s.reader.NextLine()
	if IsBlankLine(line) {
		return Header{}, false, nil
	}
	h, err := ParseHeader(line)
	if err != nil {
		return Header{}, false, err
	}
	return h, true, nil
}

// Skip moves the pipeline into the message-body stage. It reads
// nothing itself; the header block's terminating blank line is
// consumed by the Next call that returns ok=false.
func (s HeaderFieldStage) Skip() MessageBodyStage {
	return MessageBodyStage{reader: s.reader}
}

// MessageBodyStage is reached once every header has been consumed.
// From here the caller owns forwarding the request body; Parts
// surrenders the underlying connection and any buffered bytes.
type MessageBodyStage struct {
	reader *streaming.LineReader
}

// Parts returns the wrapped connection, the bytes consumed while
// parsing the start-line and headers, and any bytes already read
// ahead from the connection but not yet consumed (the beginning of
// the request body, if any arrived in the same read as the headers).
func (s MessageBodyStage) Parts() (conn io.ReadWriteCloser, readBuffer []byte, unreadBuffer []byte) {
	return s.reader.Parts()
}
