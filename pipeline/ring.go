package pipeline

// Ring is a fixed-capacity circular buffer. When full, Push overwrites
// the oldest unread element rather than blocking the producer.
//
// Ring is not synchronized; Pipeline serializes all access under a
// single mutex shared by producer and consumer.
type Ring[T any] struct {
	buf    []T
	read   int
	write  int
	filled int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v. It returns false when the buffer was full and the
// oldest unread element was overwritten (the read cursor advances past
// the lost element).
func (r *Ring[T]) Push(v T) bool {
	if r.filled == len(r.buf) {
		r.buf[r.write] = v
		r.write = r.wrap(r.write + 1)
		r.read = r.wrap(r.read + 1)
		return false
	}
	r.buf[r.write] = v
	r.write = r.wrap(r.write + 1)
	r.filled++
	return true
}

// Pop removes the oldest element. It returns the zero value and false
// when the buffer is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.filled == 0 {
		return zero, false
	}
	v := r.buf[r.read]
	r.buf[r.read] = zero
	r.read = r.wrap(r.read + 1)
	r.filled--
	return v, true
}

func (r *Ring[T]) Len() int { return r.filled }

func (r *Ring[T]) Cap() int { return len(r.buf) }

func (r *Ring[T]) wrap(i int) int {
	if i == len(r.buf) {
		return 0
	}
	return i
}
