package protocol

import (
	"fmt"
	"math"
	"time"
)

const (
	// maxBulkSize caps a declared bulk payload at 512MB, the largest
	// value a server will announce.
	maxBulkSize = 512 << 20

	// maxMultibulkLen caps the declared element count of a multibulk.
	maxMultibulkLen = 1 << 20

	// indexChunk is the allocation granularity for the multibulk index.
	indexChunk = 256
)

// Receiver supplies reply bytes from the peer. A call fills p using at
// most one transport read bounded by the absolute deadline, and never
// returns a zero count together with a nil error.
type Receiver interface {
	Recv(p []byte, deadline time.Time) (int, error)
}

// Decoder reads single replies from a Receiver into an arena buffer.
// The buffer and the multibulk index are retained across replies, so a
// busy connection settles into a steady state without per-reply
// allocation.
type Decoder struct {
	buf   *Buffer
	index bulkIndex
}

func NewDecoder(buf *Buffer) *Decoder {
	return &Decoder{buf: buf}
}

// Decode reads exactly one reply. want is the shape the caller expects;
// an error reply is acceptable in any position and is returned as a
// ServerError together with its decoded Reply. Every other mismatch is
// ErrProtocol.
//
// Views from earlier replies go stale the moment a decode begins. The
// arena itself is reclaimed only once every received byte has been
// consumed; bytes already received past the previous reply, which a
// pushed feed produces, stay in place and are decoded first.
func (d *Decoder) Decode(src Receiver, want Kind, deadline time.Time) (Reply, error) {
	if d.buf.Pos() == d.buf.Len() {
		d.buf.Reset()
	} else {
		d.buf.invalidate()
	}

	d.index.reset()

	start := d.buf.Pos()

	line, err := d.readLine(src, 0, deadline)
	if err != nil {
		return Reply{}, err
	}

	if len(line) == 0 {
		return Reply{}, fmt.Errorf("Empty reply line: %w", ErrProtocol)
	}

	prefix := Kind(line[0])
	rest := line[1:]
	restOff := start + 1

	if prefix != want && prefix != KindError {
		return Reply{}, fmt.Errorf("Expected a %s reply, got prefix %q: %w",
			want, line[0], ErrProtocol)
	}

	switch prefix {
	case KindError:
		r := d.payloadReply(KindError, restOff, len(rest))
		return r, ServerError(string(rest))

	case KindInline:
		return d.payloadReply(KindInline, restOff, len(rest)), nil

	case KindInteger:
		return Reply{kind: KindInteger, integer: parseInt(rest)}, nil

	case KindBulk:
		return d.bulkReply(src, rest, deadline)

	case KindMultibulk:
		return d.multibulkReply(src, rest, deadline)
	}

	return Reply{}, fmt.Errorf("Unknown reply prefix %q: %w", line[0], ErrProtocol)
}

func (d *Decoder) bulkReply(src Receiver, header []byte, deadline time.Time) (Reply, error) {
	size := parseInt(header)

	switch {
	case size == -1:
		// The server reported no value.
		return Reply{kind: KindBulk, value: span{null: true}}, nil

	case size < -1:
		return Reply{}, fmt.Errorf("Bulk declares negative length %d: %w", size, ErrProtocol)

	case size > maxBulkSize:
		return Reply{}, fmt.Errorf("Bulk declares %d bytes, above the %d byte ceiling: %w",
			size, maxBulkSize, ErrNoMem)
	}

	off := d.buf.Pos()

	line, err := d.readLine(src, int(size), deadline)
	if err != nil {
		return Reply{}, err
	}

	if int64(len(line)) != size {
		return Reply{}, fmt.Errorf("Bulk payload is %d bytes where the header declared %d: %w",
			len(line), size, ErrProtocol)
	}

	return d.payloadReply(KindBulk, off, len(line)), nil
}

func (d *Decoder) multibulkReply(src Receiver, header []byte, deadline time.Time) (Reply, error) {
	count := parseInt(header)

	switch {
	case count == -1:
		// No data, or the key did not exist.
		return Reply{kind: KindMultibulk}, nil

	case count < -1:
		return Reply{}, fmt.Errorf("Multibulk declares negative count %d: %w", count, ErrProtocol)

	case count > maxMultibulkLen:
		return Reply{}, fmt.Errorf("Multibulk declares %d elements, above the %d element ceiling: %w",
			count, maxMultibulkLen, ErrNoMem)
	}

	d.index.ensure(int(count))

	for i := int64(0); i < count; i++ {
		line, err := d.readLine(src, 0, deadline)
		if err != nil {
			return Reply{}, err
		}

		if len(line) == 0 || Kind(line[0]) != KindBulk {
			return Reply{}, fmt.Errorf("Multibulk element %d is not a bulk: %w", i, ErrProtocol)
		}

		size := parseInt(line[1:])

		switch {
		case size == -1:
			d.index.add(span{null: true})
			continue

		case size < -1:
			return Reply{}, fmt.Errorf("Multibulk element %d declares negative length %d: %w",
				i, size, ErrProtocol)

		case size > maxBulkSize:
			return Reply{}, fmt.Errorf("Multibulk element %d declares %d bytes, above the %d byte ceiling: %w",
				i, size, maxBulkSize, ErrNoMem)
		}

		off := d.buf.Pos()

		payload, err := d.readLine(src, int(size), deadline)
		if err != nil {
			return Reply{}, err
		}

		if int64(len(payload)) != size {
			return Reply{}, fmt.Errorf("Multibulk element %d is %d bytes where its header declared %d: %w",
				i, len(payload), size, ErrProtocol)
		}

		d.index.add(span{off: off, size: len(payload)})
	}

	return Reply{
		kind:  KindMultibulk,
		buf:   d.buf,
		gen:   d.buf.Generation(),
		elems: d.index.spans(),
	}, nil
}

// readLine returns the next CRLF-terminated line, receiving more bytes
// from src whenever the buffer does not hold a full line yet. skip is
// the payload byte count the terminator scan must not cover. The buffer
// is grown ahead of a receive when free space falls below the watermark
// or below what the line still needs.
func (d *Decoder) readLine(src Receiver, skip int, deadline time.Time) ([]byte, error) {
	for {
		if line, ok := d.buf.Line(skip); ok {
			return line, nil
		}

		miss := d.buf.shortfall(skip)

		if free := d.buf.Free(); free < bufferWatermark || free < miss {
			grow := miss
			if grow < 1 {
				grow = 1
			}

			if err := d.buf.Ensure(grow); err != nil {
				return nil, err
			}
		}

		n, err := src.Recv(d.buf.Tail(), deadline)
		if err != nil {
			return nil, err
		}

		d.buf.Extend(n)
	}
}

func (d *Decoder) payloadReply(kind Kind, off, size int) Reply {
	return Reply{
		kind:  kind,
		buf:   d.buf,
		gen:   d.buf.Generation(),
		value: span{off: off, size: size},
	}
}

// parseInt reads a decimal integer with atoi semantics: an optional
// sign, then digits up to the first non-digit. Junk parses as zero and
// a value past the int64 range saturates at the nearest bound.
func parseInt(b []byte) int64 {
	var (
		n   int64
		neg bool
		i   int
	)

	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}

	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		d := int64(b[i] - '0')

		if n > (math.MaxInt64-d)/10 {
			if neg {
				return math.MinInt64
			}

			return math.MaxInt64
		}

		n = n*10 + d
	}

	if neg {
		return -n
	}

	return n
}

// bulkIndex records the spans of multibulk elements. Its backing array
// grows in fixed chunks and is reused across replies.
type bulkIndex struct {
	marks []span
}

func (ix *bulkIndex) reset() {
	ix.marks = ix.marks[:0]
}

// ensure grows the index until n spans fit without reallocating
// mid-reply.
func (ix *bulkIndex) ensure(n int) {
	if n <= cap(ix.marks) {
		return
	}

	total := (n/indexChunk + 1) * indexChunk
	grown := make([]span, len(ix.marks), total)
	copy(grown, ix.marks)
	ix.marks = grown
}

func (ix *bulkIndex) add(s span) {
	ix.marks = append(ix.marks, s)
}

func (ix *bulkIndex) spans() []span {
	return ix.marks
}
