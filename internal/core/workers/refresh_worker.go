package workers

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Warmer recomputes and caches the current report of a user.
type Warmer interface {
	Warm(ctx context.Context, userID string) error
}

type RefreshJob struct {
	UserID string
}

// RefreshWorker rebuilds reports in the background after a user's data
// changed, so the next read is a cache hit. Jobs for a user already waiting
// in the queue are coalesced.
type RefreshWorker struct {
	warmer Warmer
	jobs   chan RefreshJob

	mu      sync.Mutex
	pending map[string]bool
}

func NewRefreshWorker(warmer Warmer, queueSize int) *RefreshWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &RefreshWorker{
		warmer:  warmer,
		jobs:    make(chan RefreshJob, queueSize),
		pending: make(map[string]bool),
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	go func() {
		log.Info("Refresh Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Info("Refresh Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks. It reports whether the job was queued or already pending.
func (w *RefreshWorker) Enqueue(userID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending[userID] {
		return true
	}

	select {
	case w.jobs <- RefreshJob{UserID: userID}:
		w.pending[userID] = true
		return true
	default:
		log.Warnf("Refresh Worker queue full! Dropping job for user %s", userID)
		return false
	}
}

func (w *RefreshWorker) processJob(ctx context.Context, job RefreshJob) {
	w.mu.Lock()
	delete(w.pending, job.UserID)
	w.mu.Unlock()

	if err := w.warmer.Warm(ctx, job.UserID); err != nil {
		log.WithField("user_id", job.UserID).Errorf("Worker failed to warm report: %v", err)
		return
	}
	log.WithField("user_id", job.UserID).Debug("Report warmed")
}
