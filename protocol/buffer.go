package protocol

import "fmt"

const (
	// bufferChunk is the allocation granularity for reply buffers.
	bufferChunk = 4096

	// bufferWatermark is the free-space threshold below which the next
	// receive grows the buffer ahead of reading.
	bufferWatermark = bufferChunk/10 + 1

	// maxBufferSize caps how large a single reply buffer may grow.
	maxBufferSize = 1 << 30
)

// Buffer is the growable byte arena shared by command rendering and reply
// decoding. Decoded replies reference spans of the arena instead of
// copies, so the buffer carries a generation that advances whenever its
// content is discarded or a new decode cycle begins. Views stamped with
// an older generation go stale rather than alias new bytes.
type Buffer struct {
	data []byte
	pos  int
	gen  uint64
}

func NewBuffer() *Buffer {
	return &Buffer{
		data: make([]byte, 0, bufferChunk),
		gen:  1,
	}
}

// Len returns the number of filled bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Pos returns the parse position, the offset of the first unconsumed byte.
func (b *Buffer) Pos() int {
	return b.pos
}

// Free returns how many bytes can be filled without growing.
func (b *Buffer) Free() int {
	return cap(b.data) - len(b.data)
}

// Generation identifies the current fill cycle.
func (b *Buffer) Generation() uint64 {
	return b.gen
}

// Reset discards all content and invalidates every view handed out so
// far. Capacity is retained.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.pos = 0
	b.gen++
}

// invalidate starts a new view generation without discarding content.
// Every view stamped with an earlier generation goes stale.
func (b *Buffer) invalidate() {
	b.gen++
}

// Ensure grows the buffer until at least n more bytes can be filled
// without reallocation. Growth happens in whole chunks and is refused
// with ErrNoMem once the ceiling is reached.
func (b *Buffer) Ensure(n int) error {
	if n < 0 {
		return fmt.Errorf("Cannot ensure %d bytes: %w", n, ErrNoMem)
	}

	need := n - b.Free()
	if need <= 0 {
		return nil
	}

	chunks := need/bufferChunk + 1
	total := cap(b.data) + chunks*bufferChunk

	if total > maxBufferSize || total < cap(b.data) {
		return fmt.Errorf("Growing to %d bytes passes the %d byte ceiling: %w",
			total, maxBufferSize, ErrNoMem)
	}

	grown := make([]byte, len(b.data), total)
	copy(grown, b.data)
	b.data = grown

	return nil
}

// Tail returns the unfilled region for a read to fill. Follow with
// Extend for the byte count actually written.
func (b *Buffer) Tail() []byte {
	return b.data[len(b.data):cap(b.data)]
}

// Extend marks n more bytes as filled. n must not exceed Free().
func (b *Buffer) Extend(n int) {
	b.data = b.data[:len(b.data)+n]
}

// Append copies p into the buffer, growing it as needed.
func (b *Buffer) Append(p []byte) error {
	if err := b.Ensure(len(p)); err != nil {
		return err
	}

	b.data = append(b.data, p...)
	return nil
}

// AppendString copies s into the buffer, growing it as needed.
func (b *Buffer) AppendString(s string) error {
	if err := b.Ensure(len(s)); err != nil {
		return err
	}

	b.data = append(b.data, s...)
	return nil
}

// Bytes returns the filled region. The slice is invalidated by the next
// Reset or growth.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// view resolves a span of the filled region. It returns nil when the
// span falls outside what is currently filled.
func (b *Buffer) view(off, size int) []byte {
	if off < 0 || size < 0 || off+size > len(b.data) {
		return nil
	}

	return b.data[off : off+size]
}
