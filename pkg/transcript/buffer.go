package transcript

// Buffer is the bounded ingest queue between the socket reader and the
// session loop. Under backpressure it sheds interim fragments first, oldest
// first, because they will be superseded anyway. Final fragments are only
// dropped when the whole queue is final, which means the consumer has been
// stalled for longer than the queue covers.
type Buffer struct {
	frags   []Fragment
	cap     int
	dropped int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 64
	}
	return &Buffer{
		cap: capacity,
	}
}

// Offer enqueues a fragment, evicting if the buffer is full. It reports
// whether anything was evicted to make room.
func (b *Buffer) Offer(frag Fragment) (evicted bool) {
	if len(b.frags) < b.cap {
		b.frags = append(b.frags, frag)
		return false
	}

	// Evict the oldest interim fragment.
	for i, f := range b.frags {
		if !f.Final {
			b.frags = append(b.frags[:i], b.frags[i+1:]...)
			b.frags = append(b.frags, frag)
			b.dropped++
			return true
		}
	}

	// All queued fragments are final. An incoming interim loses to them.
	if !frag.Final {
		b.dropped++
		return true
	}

	// Final displacing final: drop the oldest.
	b.frags = append(b.frags[1:], frag)
	b.dropped++
	return true
}

// Drain removes and returns all queued fragments in arrival order.
func (b *Buffer) Drain() []Fragment {
	out := b.frags
	b.frags = nil
	return out
}

func (b *Buffer) Len() int {
	return len(b.frags)
}

func (b *Buffer) Dropped() int {
	return b.dropped
}
