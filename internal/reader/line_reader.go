package reader

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// MaxLineSize bounds the text kept for a single line. Longer lines are drained
// from the stream and returned truncated.
const MaxLineSize = 1024 * 1024

const readBufferSize = 64 * 1024

// RawLine is one line of the source with its 1-based position in the file.
type RawLine struct {
	Position int64
	Text     string
	// Truncated is set when the line exceeded MaxLineSize; Text holds its prefix.
	Truncated bool
}

// LineReader streams lines strictly in file order.
type LineReader struct {
	r         *bufio.Reader
	buf       []byte
	position  int64
	bytesRead int64
	err       error
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, readBufferSize)}
}

// Next returns the next line, or false once the stream is exhausted or failed.
// Check Err after Next returns false.
func (lr *LineReader) Next() (RawLine, bool) {
	if lr.err != nil {
		return RawLine{}, false
	}

	lr.buf = lr.buf[:0]
	var consumed int
	truncated := false

	for {
		chunk, err := lr.r.ReadSlice('\n')
		consumed += len(chunk)
		data := bytes.TrimSuffix(chunk, []byte{'\n'})

		if !truncated {
			room := MaxLineSize + 1 - len(lr.buf)
			if len(data) > room {
				lr.buf = append(lr.buf, data[:room]...)
				truncated = true
			} else {
				lr.buf = append(lr.buf, data...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			if consumed == 0 {
				return RawLine{}, false
			}
			break
		}
		if err != nil {
			lr.err = err
			return RawLine{}, false
		}
		break
	}

	lr.position++
	lr.bytesRead += int64(consumed)

	// one spare byte lets a CRLF line of exactly MaxLineSize through
	text := lr.buf
	if !truncated {
		text = bytes.TrimSuffix(text, []byte{'\r'})
	}
	if len(text) > MaxLineSize {
		text = text[:MaxLineSize]
		truncated = true
	}

	return RawLine{
		Position:  lr.position,
		Text:      string(text),
		Truncated: truncated,
	}, true
}

func (lr *LineReader) Err() error {
	return lr.err
}

// Position is the number of lines consumed so far.
func (lr *LineReader) Position() int64 {
	return lr.position
}

// BytesRead is the number of bytes consumed from the stream, line endings included.
func (lr *LineReader) BytesRead() int64 {
	return lr.bytesRead
}
