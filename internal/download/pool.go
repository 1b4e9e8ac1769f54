package download

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/socrata-downloader/internal/model"
)

// ErrInvalidConcurrency is returned by NewPool for a concurrency below 1.
var ErrInvalidConcurrency = errors.New("download: concurrency must be at least 1")

var errNoOutcome = errors.New("fetcher reported no outcome")

// PoolConfig configures a Pool.
type PoolConfig struct {
	// Concurrency is the number of tasks downloaded at the same time.
	Concurrency int
}

// Pool runs tasks on a fixed number of concurrent slots.
type Pool struct {
	cfg     PoolConfig
	fetcher Fetcher
}

// NewPool creates a Pool running fetcher on cfg.Concurrency slots.
func NewPool(cfg PoolConfig, fetcher Fetcher) (*Pool, error) {
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidConcurrency, cfg.Concurrency)
	}
	return &Pool{cfg: cfg, fetcher: fetcher}, nil
}

// Concurrency returns the number of slots.
func (p *Pool) Concurrency() int {
	return p.cfg.Concurrency
}

// RunAll downloads every task and returns their results in completion
// order.
//
// At most Concurrency downloads run at once; waiting tasks are admitted in
// the order given as slots free up. A failing or panicking download does
// not affect the others and is never retried. The channel is closed after
// exactly one result per task has been sent, so callers should range over
// it until it closes.
func (p *Pool) RunAll(ctx context.Context, tasks []model.Task) <-chan model.Result {
	results := make(chan model.Result, len(tasks))

	go func() {
		defer close(results)

		var g errgroup.Group
		g.SetLimit(p.cfg.Concurrency)

		for _, task := range tasks {
			task := task // per-iteration copy; module targets go1.21 loop semantics
			// Go blocks until a slot is free, which keeps admission FIFO.
			g.Go(func() error {
				results <- p.run(ctx, task)
				return nil
			})
		}

		g.Wait()
	}()

	return results
}

// run calls the fetcher, converting a panic into a failed result. A
// failed result without an error gets one so every failure can be logged.
func (p *Pool) run(ctx context.Context, task model.Task) (result model.Result) {
	defer func() {
		if v := recover(); v != nil {
			result = panicResult(task, v)
		}
	}()

	result = p.fetcher.Download(ctx, task)
	if result.ID == "" {
		result.ID = task.Asset.ID
		result.Kind = task.Asset.Kind
		result.Path = task.Path
	}
	if !result.Succeeded() && result.Err == nil {
		result.Err = &Error{Kind: NetworkError, Err: errNoOutcome}
	}
	return result
}
