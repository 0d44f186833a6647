package celestial

import "github.com/san-kum/orbitsim/internal/vector"

// Trail is a fixed-capacity ring buffer of recent positions. Pushing beyond
// capacity evicts the oldest entry.
type Trail struct {
	buf   []vector.Vector
	start int
	size  int
}

func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{buf: make([]vector.Vector, capacity)}
}

func (t *Trail) Len() int { return t.size }
func (t *Trail) Cap() int { return len(t.buf) }

func (t *Trail) Push(p vector.Vector) {
	n := len(t.buf)
	if n == 0 {
		return
	}
	if t.size < n {
		t.buf[(t.start+t.size)%n] = p
		t.size++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % n
}

// Points returns the stored positions oldest first.
func (t *Trail) Points() []vector.Vector {
	out := make([]vector.Vector, t.size)
	for i := 0; i < t.size; i++ {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Last returns the newest position, if any.
func (t *Trail) Last() (vector.Vector, bool) {
	if t.size == 0 {
		return vector.Zero, false
	}
	return t.buf[(t.start+t.size-1)%len(t.buf)], true
}

func (t *Trail) Clear() {
	t.start, t.size = 0, 0
}

// SetCap resizes the buffer, keeping the newest entries that still fit.
func (t *Trail) SetCap(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	pts := t.Points()
	if len(pts) > capacity {
		pts = pts[len(pts)-capacity:]
	}
	t.buf = make([]vector.Vector, capacity)
	t.start = 0
	t.size = copy(t.buf, pts)
}

func (t *Trail) clone() *Trail {
	c := &Trail{buf: make([]vector.Vector, len(t.buf)), start: t.start, size: t.size}
	copy(c.buf, t.buf)
	return c
}
