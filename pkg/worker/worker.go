package worker

import (
	"sync"

	"github.com/mkarimz/deduction-gateway/pkg/logger"
)

type Handler = func(workerIndex int, job interface{})

// Manager fans jobs published through Publish out to a fixed pool of
// goroutines. The job channel is owned by the manager and closed on Exit;
// Wait blocks until in-flight jobs drain.
type Manager struct {
	jobs    chan interface{}
	workers int
	do      Handler
	wg      sync.WaitGroup
	once    sync.Once
}

func NewManager(bufferSize, numberOfWorkers int, do Handler) *Manager {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	m := &Manager{
		jobs:    make(chan interface{}, bufferSize),
		workers: numberOfWorkers,
		do:      do,
	}
	m.start()
	return m
}

func (m *Manager) start() {
	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go func(idx int) {
			defer m.wg.Done()
			for job := range m.jobs {
				m.dispatch(idx, job)
			}
		}(i)
	}
}

// dispatch runs a single job with its own recover so a panicking job cannot
// take the worker loop down with it.
func (m *Manager) dispatch(idx int, job interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker panicked", "worker", idx, "error", r)
		}
	}()
	m.do(idx, job)
}

// Publish enqueues a job. It blocks when the buffer is full.
func (m *Manager) Publish(job interface{}) {
	m.jobs <- job
}

// Exit closes the job channel; workers exit after draining it.
func (m *Manager) Exit() {
	m.once.Do(func() { close(m.jobs) })
}

func (m *Manager) Wait() {
	m.wg.Wait()
}
