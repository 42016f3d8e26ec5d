package probe

// sampleRing is a fixed-capacity FIFO ring of throughput samples. Pushing
// past capacity overwrites the oldest entry in place.
type sampleRing struct {
	data  []float64
	head  int
	count int
}

func newSampleRing(capacity int) *sampleRing {
	return &sampleRing{data: make([]float64, capacity)}
}

func (r *sampleRing) push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// lastN returns the most recent n samples in chronological order. Fewer are
// returned when fewer have been pushed.
func (r *sampleRing) lastN(n int) []float64 {
	if n > r.count {
		n = r.count
	}
	out := make([]float64, n)
	start := r.head - n
	if start < 0 {
		start += len(r.data)
	}
	for i := 0; i < n; i++ {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

func (r *sampleRing) len() int { return r.count }

func (r *sampleRing) reset() {
	r.head = 0
	r.count = 0
}
