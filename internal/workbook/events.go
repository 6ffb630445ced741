package workbook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ShayCichocki/rosterlint/internal/logging"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// EventType represents the type of workbook event.
type EventType string

const (
	// EventLoaded indicates a table was replaced wholesale.
	EventLoaded EventType = "loaded"
	// EventEdited indicates a single row was replaced in place.
	EventEdited EventType = "edited"
	// EventRevalidated indicates the findings were recomputed after a change.
	EventRevalidated EventType = "revalidated"
)

// Event is emitted after every mutation and every revalidation.
type Event struct {
	Type EventType
	// Table is the table that changed.
	Table models.Table
	// Index is the edited row's position, or -1.
	Index int
	// Errors is the total finding count after the event.
	Errors int
	// Message provides additional context.
	Message   string
	Timestamp time.Time
}

// emitter is a buffered, drop-on-full event channel.
type emitter struct {
	mu      sync.RWMutex
	events  chan Event
	closed  bool
	dropped atomic.Uint64
	logger  *logging.Logger
}

func newEmitter(size int, logger *logging.Logger) *emitter {
	return &emitter{events: make(chan Event, size), logger: logger}
}

// emit sends ev without blocking. When the buffer is full the event is
// dropped and counted.
func (e *emitter) emit(ev Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
		count := e.dropped.Add(1)
		if count%100 == 1 {
			e.logger.Log("[workbook] event channel full, dropped event (total dropped: %d): type=%s", count, ev.Type)
		}
	}
}

func (e *emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
}
