package core

// streaming.go provides the reader chain every delimited input passes through.
//
//   - TextDecoder: converts code-page encoded input (windows-1252, iso-8859-1, ...) to UTF-8
//   - BOMSkippingReader: removes a leading UTF-8 BOM written by Windows tools
//   - UTF8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - CountingReader: tracks bytes read for the debug log
//
// Use TextDecoder.Wrap to apply all transforms in the correct order.

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// TextDecoder is the input encoding capability handed to the parser.
// It is built once at startup from the configured encoding name.
type TextDecoder struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

// NewTextDecoder resolves an encoding label such as "utf-8", "windows-1252" or "latin1".
func NewTextDecoder(name string) (TextDecoder, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		label = "utf-8"
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return TextDecoder{}, fmt.Errorf("unsupported input encoding %q: %w", name, err)
	}

	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return TextDecoder{}, fmt.Errorf("unsupported input encoding %q: %w", name, err)
	}

	if canonical == "utf-8" {
		return TextDecoder{name: canonical}, nil
	}
	return TextDecoder{name: canonical, enc: enc}, nil
}

// Name returns the canonical encoding name.
func (d TextDecoder) Name() string {
	if d.name == "" {
		return "utf-8"
	}
	return d.name
}

// Wrap applies decoding, BOM skipping and UTF-8 sanitization to r.
//
// The order matters:
//  1. Code-page input is decoded to UTF-8 first
//  2. The BOM is stripped before any parsing
//  3. Sanitization catches bytes that are still not valid UTF-8
func (d TextDecoder) Wrap(r io.Reader) *CountingReader {
	if d.enc != nil {
		r = transform.NewReader(r, d.enc.NewDecoder())
	}
	return NewCountingReader(NewUTF8Sanitizer(NewBOMSkippingReader(r)))
}

// UTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes with '?'
// on the fly, carrying incomplete multi-byte sequences across reads.
type UTF8Sanitizer struct {
	reader  io.Reader
	pending []byte // Leftover bytes that may start a multi-byte sequence
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

// isAllASCII returns true if all bytes are ASCII (< 128).
func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to hand out.
// Unless atEOF, a trailing incomplete sequence is kept for the next Read.
func (s *UTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if r == utf8.RuneError && size == 1 {
			if !atEOF && isIncompleteRune(data[read:]) {
				s.pending = append(s.pending, data[read:]...)
				return write
			}
			data[write] = '?'
			write++
			read++
			continue
		}

		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// runeLen returns the expected length of a UTF-8 sequence starting with byte b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0 // continuation byte
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// isIncompleteRune returns true if data could be the start of a longer sequence.
func isIncompleteRune(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	expected := runeLen(data[0])
	if expected <= 1 || expected <= len(data) {
		return false
	}
	for _, b := range data[1:] {
		if b&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	buf     []byte // Bytes read during the BOM check that belong to the content
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		head := make([]byte, 3)
		n, err := io.ReadFull(r.reader, head)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		head = head[:n]
		if n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
			head = nil
		}
		r.buf = head
	}

	if len(r.buf) > 0 {
		n := copy(p, r.buf)
		r.buf = r.buf[n:]
		return n, nil
	}

	return r.reader.Read(p)
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}
