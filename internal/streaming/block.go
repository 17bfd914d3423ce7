package streaming

import "io"

// readUntilLimit bounds how many bytes a single ReadUntil call will
// accumulate before giving up on finding its delimiter, so a client
// that never sends CRLF cannot make the parser buffer unbounded data.
const readUntilLimit = 512

// LineReader frames a ByteStream into delimiter-terminated chunks
// (CRLF for HTTP start-lines and headers), while retaining every byte
// it has ever read so the underlying connection and read-ahead state
// can be handed off intact to whatever forwards the request body.
type LineReader struct {
	source io.ReadWriteCloser
	stream *ByteStream
	buffer []byte
}

// NewLineReader wraps a connection for line-oriented reads. source is
// retained so Parts can return it once framing is done.
func NewLineReader(source io.ReadWriteCloser) *LineReader {
	return &LineReader{source: source, stream: NewByteStream(source)}
}

// NextLine reads up to and including a trailing "\r\n".
func (r *LineReader) NextLine() []byte {
	return r.ReadUntil([]byte{13, 10})
}

// ReadUntil reads bytes into the reader's internal buffer until delim
// is matched, readUntilLimit bytes have been accumulated, or the
// stream ends. The match index restarts at zero on any mismatching
// byte, so a delimiter that begins inside a partial match (the "\r\n"
// in "\r\r\n") is not detected. The returned slice aliases the reader's
// internal buffer and is only valid until the next read call.
func (r *LineReader) ReadUntil(delim []byte) []byte {
	start := len(r.buffer)
	matched := 0
	for {
		if len(r.buffer)-start >= readUntilLimit {
			break
		}
		b, ok := r.stream.Next()
		if !ok {
			break
		}
		r.buffer = append(r.buffer, b)

		if delim[matched] == b {
			matched++
		} else {
			matched = 0
		}
		if matched == len(delim) {
			break
		}
	}
	return r.buffer[start:]
}

// Len reports how many bytes have accumulated in the reader's internal
// buffer across all ReadUntil calls so far.
func (r *LineReader) Len() int {
	return len(r.buffer)
}

// Parts surrenders the reader's state: the wrapped connection, the
// bytes consumed for framing (headers and start-line), and any bytes
// already read ahead from the source but not yet handed to a caller
// (the start of the request body, typically). No bytes are lost.
func (r *LineReader) Parts() (source io.ReadWriteCloser, readBuffer []byte, unreadBuffer []byte) {
	return r.source, r.buffer, r.stream.buffer
}
