package poll

// recencyBuffer is a fixed-capacity ring over item ids. Pushing a new id
// evicts the oldest one once full; list returns ids newest first.
type recencyBuffer struct {
	buf  []int
	head int
	size int
}

func newRecencyBuffer(capacity int) *recencyBuffer {
	return &recencyBuffer{buf: make([]int, capacity)}
}

func (rb *recencyBuffer) push(id int) {
	rb.buf[rb.head] = id
	rb.head = (rb.head + 1) % len(rb.buf)
	if rb.size < len(rb.buf) {
		rb.size++
	}
}

func (rb *recencyBuffer) list() []int {
	out := make([]int, 0, rb.size)
	for i := 0; i < rb.size; i++ {
		out = append(out, rb.buf[(rb.head-1-i+len(rb.buf))%len(rb.buf)])
	}
	return out
}

func (rb *recencyBuffer) len() int {
	return rb.size
}
