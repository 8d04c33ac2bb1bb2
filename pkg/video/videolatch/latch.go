package videolatch

import (
	"sync"
	"sync/atomic"

	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
)

// Latch is a single frame mailbox between a decoding goroutine and the
// render loop. A publish overwrites any frame not yet consumed.
type Latch struct {
	mu        sync.Mutex
	slot      *videoframe.Frame
	fresh     int32
	published uint64
	dropped   uint64
}

type Stats struct {
	Published uint64
	Dropped   uint64
}

// Publish stores frame, a nil frame is the end of stream sentinel.
func (l *Latch) Publish(frame *videoframe.Frame) {
	l.mu.Lock()
	if atomic.LoadInt32(&l.fresh) == 1 {
		atomic.AddUint64(&l.dropped, 1)
	}
	l.slot = frame
	atomic.AddUint64(&l.published, 1)
	atomic.StoreInt32(&l.fresh, 1)
	l.mu.Unlock()
}

// Acquire locks the latch and returns the slot along with whether it was
// published since the last acquire. The caller must call Release.
func (l *Latch) Acquire() (*videoframe.Frame, bool) {
	l.mu.Lock()
	fresh := atomic.SwapInt32(&l.fresh, 0) == 1
	return l.slot, fresh
}

func (l *Latch) Release() {
	l.mu.Unlock()
}

// Fresh reports without locking whether an unconsumed frame is waiting.
func (l *Latch) Fresh() bool {
	return atomic.LoadInt32(&l.fresh) == 1
}

// Reset empties the slot.
func (l *Latch) Reset() {
	l.mu.Lock()
	l.slot = nil
	atomic.StoreInt32(&l.fresh, 0)
	l.mu.Unlock()
}

func (l *Latch) Stats() Stats {
	return Stats{
		Published: atomic.LoadUint64(&l.published),
		Dropped:   atomic.LoadUint64(&l.dropped),
	}
}
