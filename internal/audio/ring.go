package audio

import "sync"

// ring keeps the most recent capture frames. The capture callback writes, the
// game goroutine reads.
type ring struct {
	mu    sync.Mutex
	buf   []float32
	next  int
	total uint64
}

func newRing(size int) *ring {
	return &ring{buf: make([]float32, size)}
}

func (r *ring) write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		r.buf[r.next] = s
		r.next = (r.next + 1) % len(r.buf)
	}
	r.total += uint64(len(samples))
}

// latest copies the newest len(dst) frames into dst, oldest first. Frames that
// were never written read as silence.
func (r *ring) latest(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(dst)
	start := r.next - n
	for start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(start+i)%len(r.buf)]
	}
}

func (r *ring) written() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
