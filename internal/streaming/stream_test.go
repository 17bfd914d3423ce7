package streaming

import (
	"bytes"
	"strings"
	"testing"
)

func TestByteStreamReadsAllBytes(t *testing.T) {
	src := strings.NewReader("hello")
	s := NewByteStream(src)

	var got []byte
	for {
		b, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestByteStreamStickyEOF(t *testing.T) {
	src := strings.NewReader("a")
	s := NewByteStream(src)

	if b, ok := s.Next(); !ok || b != 'a' {
		t.Fatalf("expected 'a', got %q ok=%v", b, ok)
	}
	for i := 0; i < 3; i++ {
		if _, ok := s.Next(); ok {
			t.Fatalf("expected sticky EOF after stream exhausted")
		}
	}
}

type readWriteCloser struct {
	*bytes.Reader
}

func (readWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (readWriteCloser) Close() error                 { return nil }

func TestLineReaderNextLine(t *testing.T) {
	src := readWriteCloser{bytes.NewReader([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\nbody"))}
	r := NewLineReader(src)

	line1 := r.NextLine()
	if string(line1) != "GET / HTTP/1.1\r\n" {
		t.Fatalf("unexpected first line: %q", line1)
	}
	line2 := r.NextLine()
	if string(line2) != "Host: example.com\r\n" {
		t.Fatalf("unexpected second line: %q", line2)
	}
	line3 := r.NextLine()
	if string(line3) != "\r\n" {
		t.Fatalf("unexpected terminator line: %q", line3)
	}

	_, readBuf, unreadBuf := r.Parts()
	if string(readBuf) != "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n" {
		t.Fatalf("unexpected read buffer: %q", readBuf)
	}
	if string(unreadBuf) != "body" {
		t.Fatalf("unexpected unread buffer: %q", unreadBuf)
	}
}

func TestLineReaderRespectsLimit(t *testing.T) {
	long := strings.Repeat("x", 1000)
	src := readWriteCloser{bytes.NewReader([]byte(long))}
	r := NewLineReader(src)

	line := r.NextLine()
	if len(line) != readUntilLimit {
		t.Fatalf("expected line capped at %d bytes, got %d", readUntilLimit, len(line))
	}
}
