package monitoring

// ring is a fixed-capacity FIFO. Pushing to a full ring drops the oldest item.
type ring[T any] struct {
	items []T
	next  int
	full  bool
}

func newRing[T any](size int) *ring[T] {
	return &ring[T]{items: make([]T, size)}
}

func (r *ring[T]) push(v T) {
	r.items[r.next] = v
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
}

// all returns the items oldest first
func (r *ring[T]) all() []T {
	if !r.full {
		return append([]T(nil), r.items[:r.next]...)
	}
	out := make([]T, 0, len(r.items))
	out = append(out, r.items[r.next:]...)
	return append(out, r.items[:r.next]...)
}

// last returns up to n of the newest items, oldest first
func (r *ring[T]) last(n int) []T {
	all := r.all()
	if len(all) > n {
		return all[len(all)-n:]
	}
	return all
}
