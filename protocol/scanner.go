package protocol

import "bytes"

var crlf = []byte("\r\n")

// Line consumes and returns the next CRLF-terminated line, not including
// the terminator. skip is the number of payload bytes past the parse
// position that are known content; the terminator scan starts after
// them, so a payload containing CR or LF bytes does not split the line.
//
// When the buffer does not yet hold a complete line, Line reports false
// and consumes nothing.
func (b *Buffer) Line(skip int) ([]byte, bool) {
	if skip < 0 {
		return nil, false
	}

	from := b.pos + skip
	if from+2 > len(b.data) {
		// Too short to hold the payload and a terminator.
		return nil, false
	}

	i := bytes.Index(b.data[from:], crlf)
	if i < 0 {
		return nil, false
	}

	line := b.data[b.pos : from+i]
	b.pos = from + i + 2

	return line, true
}

// shortfall returns how many bytes are still missing before a line with
// skip payload bytes could possibly terminate. Zero means the terminator
// may already be buffered and scanning has to decide.
func (b *Buffer) shortfall(skip int) int {
	if miss := b.pos + skip + 2 - len(b.data); miss > 0 {
		return miss
	}

	return 0
}
