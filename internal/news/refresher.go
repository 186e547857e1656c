package news

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/logger"
)

// Batch is the outcome of one fetch. Items is a complete replacement set.
type Batch struct {
	Items     []Item
	Err       error
	FetchedAt time.Time
}

// Refresher runs fetches in the background, one at a time, and hands
// complete batches to the frame loop.
type Refresher struct {
	src     Source
	timeout time.Duration
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	results chan Batch
	loading atomic.Bool
}

// NewRefresher creates a refresher. A timeout of zero means no per-fetch deadline.
func NewRefresher(src Source, timeout time.Duration) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		src:     src,
		timeout: timeout,
		log:     logger.Named("refresh"),
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Batch, 1),
	}
}

// Refresh starts a fetch unless one is already in flight.
// It reports whether a fetch was started.
func (r *Refresher) Refresh() bool {
	if r.ctx.Err() != nil {
		return false
	}
	if !r.loading.CompareAndSwap(false, true) {
		return false
	}

	r.wg.Add(1)
	go r.fetch()
	return true
}

func (r *Refresher) fetch() {
	defer r.wg.Done()
	defer r.loading.Store(false)

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(r.ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	items, err := r.src.Fetch(ctx)
	batch := Batch{Items: items, Err: err, FetchedAt: time.Now()}
	if err != nil {
		r.log.Warn("fetch failed", zap.Error(err), zap.Duration("took", time.Since(start)))
	} else {
		r.log.Debug("fetch complete", zap.Int("items", len(items)), zap.Duration("took", time.Since(start)))
	}

	select {
	case r.results <- batch:
	case <-r.ctx.Done():
	}
}

// Poll returns a finished batch without blocking.
func (r *Refresher) Poll() (Batch, bool) {
	select {
	case b := <-r.results:
		return b, true
	default:
		return Batch{}, false
	}
}

// Results exposes the batch channel for callers that want to block.
func (r *Refresher) Results() <-chan Batch {
	return r.results
}

// Loading reports whether a fetch is in flight.
func (r *Refresher) Loading() bool {
	return r.loading.Load()
}

// Every triggers Refresh on a fixed interval until Close. Non-positive
// intervals are ignored.
func (r *Refresher) Every(interval time.Duration) {
	if interval <= 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Refresh()
			case <-r.ctx.Done():
				return
			}
		}
	}()
}

// Close cancels any in-flight fetch and waits for background work to stop.
func (r *Refresher) Close() {
	r.cancel()
	r.wg.Wait()
}
