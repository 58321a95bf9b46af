// Package sse turns a raw server-sent-event byte stream into decoded
// flume events: Framer splits arbitrarily-chunked bytes into
// blank-line-bounded records, Decode turns one record into a semantic
// event.
package sse

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

var recordSep = []byte("\n\n")

// Framer splits an incrementally-delivered byte stream into records
// bounded by a blank line. State persists across Feed calls, so chunk
// boundaries may fall anywhere: inside a multi-byte character, inside a
// CRLF pair, or inside the record delimiter itself.
//
// The zero value is ready to use. A Framer is owned by a single stream's
// read loop and is not safe for concurrent use.
type Framer struct {
	// pending holds bytes that cannot be interpreted yet: the trailing
	// bytes of an incomplete UTF-8 sequence, or a CR that may pair with a
	// LF at the start of the next chunk.
	pending []byte
	buf     []byte
}

// Feed appends a chunk of raw bytes and returns the complete records it
// finishes, in order. A single call may return zero, one, or many records.
// Records are trimmed of surrounding whitespace; whitespace-only records
// are dropped.
func (f *Framer) Feed(p []byte) []string {
	data := p
	if len(f.pending) > 0 {
		data = append(f.pending, p...)
	}

	n := len(data) - incompleteTailLen(data)
	if n > 0 && data[n-1] == '\r' {
		// A CR at the chunk boundary must wait: the next chunk may open
		// with the LF that completes a CRLF pair.
		n--
	}
	f.pending = append(f.pending[:0:0], data[n:]...)
	f.buf = append(f.buf, normalizeNewlines(data[:n])...)

	var records []string
	for {
		i := bytes.Index(f.buf, recordSep)
		if i < 0 {
			return records
		}
		rec := strings.TrimSpace(string(f.buf[:i]))
		f.buf = append(f.buf[:0], f.buf[i+len(recordSep):]...)
		if rec != "" {
			records = append(records, rec)
		}
	}
}

// Flush drains the remaining buffer as one final record. It reports false
// when nothing but whitespace remains. Call it once the stream has ended
// so a body that closes without a trailing blank line still yields its
// last record.
func (f *Framer) Flush() (string, bool) {
	f.buf = append(f.buf, normalizeNewlines(f.pending)...)
	f.pending = nil
	rec := strings.TrimSpace(string(f.buf))
	f.buf = f.buf[:0]
	if rec == "" {
		return "", false
	}
	return rec, true
}

// incompleteTailLen returns the number of trailing bytes that form the
// beginning of an unfinished UTF-8 sequence. Invalid sequences that can
// never complete are reported as 0 and passed through untouched.
func incompleteTailLen(b []byte) int {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c&0xC0 == 0x80 {
			// Continuation byte, keep looking for the start.
			continue
		}
		if c < 0x80 {
			return 0
		}
		if want := runeLen(c); want > i {
			return i
		}
		return 0
	}
	return 0
}

// runeLen returns the encoded length implied by a UTF-8 leading byte.
func runeLen(c byte) int {
	switch {
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// normalizeNewlines canonicalizes CRLF and lone CR to LF.
func normalizeNewlines(b []byte) []byte {
	if !bytes.ContainsRune(b, '\r') {
		return b
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}
