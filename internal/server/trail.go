package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TrailEntry is one HTTP request record flowing through the trail
// pipeline.
type TrailEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Username   string    `json:"username,omitempty"`
	ReturnID   string    `json:"return_id,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}

// RequestTrail batches request records off the hot path and flushes them
// to the structured log through a small worker pool. A batch is flushed
// when full or when the oldest entry has waited past the timeout.
type RequestTrail struct {
	workerCount int
	batchSize   int
	timeout     time.Duration
	logger      *zap.Logger

	inputChan  chan TrailEntry
	batchChan  chan []TrailEntry
	shutdownCh chan struct{}
	once       sync.Once

	wg sync.WaitGroup
}

func NewRequestTrail(workerCount, batchSize int, timeout time.Duration, logger *zap.Logger) *RequestTrail {
	return &RequestTrail{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		logger:      logger,
		inputChan:   make(chan TrailEntry, workerCount*batchSize*2),
		batchChan:   make(chan []TrailEntry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *RequestTrail) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}
}

func (m *RequestTrail) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("request trail shutdown completed")
		case <-ctx.Done():
			m.logger.Warn("request trail shutdown interrupted")
		}
	})
}

func (m *RequestTrail) LogEntry(ctx context.Context, entry TrailEntry) {
	select {
	case m.inputChan <- entry:
	case <-ctx.Done():
		m.emergencyLog(entry)
	}
}

func (m *RequestTrail) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []TrailEntry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry, ok := <-m.inputChan:
			if !ok {
				return
			}

			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *RequestTrail) dispatchBatch(batch []TrailEntry) {
	batchCopy := make([]TrailEntry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		// Workers are saturated; write directly rather than block the
		// aggregator.
		m.writeBatch(-1, batchCopy)
	}
}

func (m *RequestTrail) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	for {
		select {
		case batch, ok := <-m.batchChan:
			if !ok {
				return
			}
			m.writeBatch(id, batch)
		case <-ctx.Done():
			// Drain whatever is queued before exiting.
			for {
				select {
				case batch, ok := <-m.batchChan:
					if !ok {
						return
					}
					m.writeBatch(id, batch)
				default:
					return
				}
			}
		}
	}
}

func (m *RequestTrail) emergencyLog(entry TrailEntry) {
	m.logger.Warn("request trail entry written outside pipeline",
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.Int("status", entry.StatusCode),
		zap.String("username", entry.Username))
}

func (m *RequestTrail) writeBatch(workerID int, batch []TrailEntry) {
	for _, entry := range batch {
		m.logger.Info("request",
			zap.Int("trail_worker", workerID),
			zap.Time("ts", entry.Timestamp),
			zap.String("method", entry.Method),
			zap.String("path", entry.Path),
			zap.Int("status", entry.StatusCode),
			zap.String("username", entry.Username),
			zap.String("return_id", entry.ReturnID),
			zap.String("request", entry.Request),
			zap.String("response", entry.Response))
	}
}
