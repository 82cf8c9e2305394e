package analytics

import (
	"sync"
	"sync/atomic"

	"github.com/labstack/gommon/log"
)

// Recorder is where a Tracker writes events.
type Recorder interface {
	SaveEvent(ev Event) error
}

// Tracker queues events and writes them in the background so that callers
// never block on the database. When the queue is full events are dropped.
type Tracker struct {
	rec     Recorder
	queue   chan Event
	dropped atomic.Int64
	wg      sync.WaitGroup
	logger  *log.Logger

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
}

// NewTracker starts a tracker with a queue of the given size.
func NewTracker(rec Recorder, size int) *Tracker {
	if size <= 0 {
		size = 256
	}
	t := &Tracker{
		rec:    rec,
		queue:  make(chan Event, size),
		logger: log.New("analytics"),
	}
	t.wg.Add(1)
	go t.run()
	return t
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for ev := range t.queue {
		if err := t.rec.SaveEvent(ev); err != nil {
			t.logger.Errorf("save event %s: %v", ev.Name, err)
		}
	}
}

// Enqueue queues ev. It reports false if the event was dropped because
// the queue is full or the tracker is closed.
func (t *Tracker) Enqueue(ev Event) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.dropped.Add(1)
		return false
	}
	select {
	case t.queue <- ev:
		return true
	default:
		t.dropped.Add(1)
		return false
	}
}

// Track implements listing.EventSink for server-side events.
func (t *Tracker) Track(name string, params map[string]string) {
	t.Enqueue(NewEvent(name, "", params))
}

// Dropped returns the number of events lost to a full queue or to Close.
func (t *Tracker) Dropped() int64 {
	return t.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be written.
func (t *Tracker) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()
	t.wg.Wait()
}
