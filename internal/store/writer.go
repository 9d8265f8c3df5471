package store

import (
	"sync"

	"github.com/zjrosen/mimic/internal/log"
)

// defaultQueueSize bounds the number of pending writes.
const defaultQueueSize = 256

// Writer runs persistence jobs on a single background goroutine so callers on
// the game loop never wait for disk. Jobs run in submission order.
type Writer struct {
	jobs chan func() error
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewWriter starts a writer with the default queue size.
func NewWriter() *Writer {
	return NewWriterSize(defaultQueueSize)
}

// NewWriterSize starts a writer whose queue holds size pending jobs.
func NewWriterSize(size int) *Writer {
	w := &Writer{
		jobs: make(chan func() error, size),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Writer) run() {
	defer close(w.done)
	for job := range w.jobs {
		if err := job(); err != nil {
			log.ErrorErr(log.CatStore, "Background write failed", err)
		}
	}
}

// Submit queues job. When the queue is full the job runs inline rather than
// being dropped. Jobs submitted after Close run inline as well.
func (w *Writer) Submit(job func() error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		runInline(job)
		return
	}
	select {
	case w.jobs <- job:
		w.mu.Unlock()
	default:
		w.mu.Unlock()
		log.Warn(log.CatStore, "Write queue full, writing inline", "capacity", cap(w.jobs))
		runInline(job)
	}
}

// Close drains pending jobs and stops the writer. Safe to call more than once.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()
	<-w.done
}

func runInline(job func() error) {
	if err := job(); err != nil {
		log.ErrorErr(log.CatStore, "Inline write failed", err)
	}
}
