package protocol

import "fmt"

// Kind identifies the shape of a reply. Its value is the wire prefix
// byte that introduces the shape.
type Kind byte

const (
	KindError     Kind = '-'
	KindInline    Kind = '+'
	KindInteger   Kind = ':'
	KindBulk      Kind = '$'
	KindMultibulk Kind = '*'
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindInline:
		return "inline"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindMultibulk:
		return "multibulk"
	default:
		return fmt.Sprintf("unknown(%q)", byte(k))
	}
}

// span locates a payload inside a Buffer. A null span records a bulk
// the server reported as absent.
type span struct {
	off  int
	size int
	null bool
}

// Reply is one decoded server reply. It holds exactly one shape,
// reported by Kind; accessors for the other shapes return zero values.
//
// Payload accessors return views into the decode buffer. A view stays
// valid only until the next decode begins; from then on the accessors
// report nil instead of aliasing unrelated bytes.
type Reply struct {
	kind Kind

	buf *Buffer
	gen uint64

	integer int64
	value   span
	elems   []span
}

// Kind reports the shape of the reply.
func (r Reply) Kind() Kind {
	return r.kind
}

// Int returns the integer payload. It is zero for every other shape.
func (r Reply) Int() int64 {
	if r.kind != KindInteger {
		return 0
	}

	return r.integer
}

// Value returns the text of an inline, error, or bulk reply. It is nil
// for other shapes, for null bulks, and for stale views.
func (r Reply) Value() []byte {
	switch r.kind {
	case KindInline, KindError, KindBulk:
	default:
		return nil
	}

	if r.value.null || !r.live() {
		return nil
	}

	return r.buf.view(r.value.off, r.value.size)
}

// IsNull reports whether a bulk reply carried the no-value marker.
func (r Reply) IsNull() bool {
	return r.kind == KindBulk && r.value.null
}

// Len returns the element count of a multibulk reply.
func (r Reply) Len() int {
	if r.kind != KindMultibulk {
		return 0
	}

	return len(r.elems)
}

// Elem returns the i'th element of a multibulk reply. ok is false for
// out-of-range indexes, for null elements, and for stale views.
func (r Reply) Elem(i int) (elem []byte, ok bool) {
	if r.kind != KindMultibulk || i < 0 || i >= len(r.elems) || !r.live() {
		return nil, false
	}

	s := r.elems[i]
	if s.null {
		return nil, false
	}

	elem = r.buf.view(s.off, s.size)
	return elem, elem != nil
}

// live reports whether the decode buffer still holds this reply's bytes.
func (r Reply) live() bool {
	return r.buf != nil && r.buf.Generation() == r.gen
}
