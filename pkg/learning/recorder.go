package learning

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"shopfloor/pkg/protocol"
)

// task is one queued persistence write.
type task struct {
	entry protocol.LearningEntry

	// interaction fields; set when suggestionID is non-empty
	suggestionID string
	action       string
	module       string
	ctxMap       map[string]string
}

// Recorder dispatches learning writes to a single background worker over a
// bounded queue. Enqueue never blocks: when the queue is full the oldest
// task is evicted, mirroring the drop policy of the station's other bounded
// buffers. Write errors are logged and swallowed; a dropped log entry is
// acceptable, a stalled operator control is not.
type Recorder struct {
	store *Store
	tasks chan task

	dropped atomic.Int64
	closed  atomic.Bool

	closeOnce sync.Once
	done      chan struct{}
}

// DefaultQueueSize bounds the recorder queue. Learning traffic is a few
// events per run; 256 absorbs any realistic burst.
const DefaultQueueSize = 256

// NewRecorder starts the background worker. Close must be called to drain.
func NewRecorder(store *Store, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	r := &Recorder{
		store: store,
		tasks: make(chan task, queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues a learning entry. Fire-and-forget: it never blocks and
// never returns an error.
func (r *Recorder) Record(e protocol.LearningEntry) {
	r.enqueue(task{entry: e})
}

// RecordCompletion enqueues the success entry for a finished run.
func (r *Recorder) RecordCompletion(module, machineID, barCode string, ctxMap map[string]string) {
	r.Record(Completion(module, machineID, barCode, ctxMap))
}

// RecordBlocker enqueues the blocker entry for a newly observed top blocker.
// eventType is expected to be the lowercased blocker code.
func (r *Recorder) RecordBlocker(module, eventType, machineID string, ctxMap map[string]string) {
	r.Record(BlockerEntry(module, eventType, machineID, ctxMap))
}

// RecordSuggestionInteraction enqueues the audit-only interaction record.
func (r *Recorder) RecordSuggestionInteraction(suggestionID, action, module string, ctxMap map[string]string) {
	r.enqueue(task{
		suggestionID: suggestionID,
		action:       action,
		module:       module,
		ctxMap:       ctxMap,
	})
}

// Dropped returns the number of tasks evicted because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting work and waits for the worker to drain the queue.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.tasks)
		<-r.done
	})
}

// enqueue performs the non-blocking send, evicting the oldest queued task
// when the buffer is full.
func (r *Recorder) enqueue(t task) {
	if r.closed.Load() {
		return
	}
	for {
		select {
		case r.tasks <- t:
			return
		default:
		}
		select {
		case <-r.tasks:
			r.dropped.Add(1)
		default:
		}
	}
}

// run is the worker loop. All store errors terminate here.
func (r *Recorder) run() {
	defer close(r.done)
	ctx := context.Background()
	for t := range r.tasks {
		var err error
		if t.suggestionID != "" {
			err = r.store.AppendInteraction(ctx, t.suggestionID, t.action, t.module, t.ctxMap)
		} else {
			err = r.store.Append(ctx, t.entry)
		}
		if err != nil {
			log.Printf("learning: dropped write: %v", err)
		}
	}
}
