// Package runner runs batches of jobs concurrently while reporting each one
// to a progress bar as an active task.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/andpalmier/fyi/internal/progress"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Config configures the worker pool
type Config struct {
	Workers int
	Logger  *zap.Logger
}

// Job is one unit of work. Name is what the progress bar shows while it runs.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result represents the outcome of a single job
type Result struct {
	Name  string
	Index int
	Error error
}

// Tracker is the slice of the progress bar the runner needs.
type Tracker interface {
	Task(text string) *progress.TaskGuard
	Increment()
}

// Runner coordinates a bounded pool of goroutines over a list of jobs
type Runner struct {
	tracker Tracker
	config  Config
}

// New creates a Runner reporting to tracker, which may be nil when no
// progress should be shown.
func New(tracker Tracker, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{tracker: tracker, config: cfg}
}

// Run executes all jobs and returns their results in job order. Jobs not yet
// started when ctx is cancelled are skipped and reported with ctx's error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	results := make([]Result, len(jobs))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(r.config.Workers)

	for i, j := range jobs {
		p.Go(func(ctx context.Context) error {
			results[i] = r.runOne(ctx, j, i)
			return nil
		})
	}

	// Errors are carried per result; the pool itself never fails.
	_ = p.Wait()

	var errs []error
	for _, res := range results {
		if res.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Error))
		}
	}

	if len(errs) > 0 {
		r.config.Logger.Debug("jobs failed",
			zap.Int("failed", len(errs)),
			zap.Int("total", len(jobs)))
		return results, fmt.Errorf("%d of %d jobs failed: %w",
			len(errs), len(jobs), errors.Join(errs...))
	}

	return results, nil
}

// runOne runs a single job under a task guard. A skipped or duplicate job
// still counts toward the total so the bar can finish.
func (r *Runner) runOne(ctx context.Context, j Job, index int) Result {
	res := Result{Name: j.Name, Index: index}

	if err := ctx.Err(); err != nil {
		res.Error = err
		r.increment()
		return res
	}

	var guard *progress.TaskGuard
	if r.tracker != nil {
		guard = r.tracker.Task(j.Name)
		if guard == nil {
			defer r.tracker.Increment()
		}
	}
	defer guard.Done()

	res.Error = j.Run(ctx)
	return res
}

func (r *Runner) increment() {
	if r.tracker != nil {
		r.tracker.Increment()
	}
}
