package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osgood/armorytrack/internal/logger"
)

// Runner is the poll cycle the worker fires once per day
type Runner interface {
	RunCycle(ctx context.Context) error
}

// PollWorker schedules one poll cycle per day at a fixed UTC hour. The timer
// reschedules itself after each run; Shutdown cancels the pending timer and
// waits for an in-flight cycle to finish.
type PollWorker struct {
	runner   Runner
	hourUTC  int
	timer    *time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewPollWorker creates a PollWorker firing daily at hourUTC
func NewPollWorker(runner Runner, hourUTC int) *PollWorker {
	return &PollWorker{
		runner:   runner,
		hourUTC:  hourUTC,
		shutdown: make(chan struct{}),
	}
}

// Start schedules the first poll
func (w *PollWorker) Start() {
	w.scheduleNext()
}

// nextRunTime returns the next occurrence of the configured UTC hour strictly
// after now
func nextRunTime(now time.Time, hourUTC int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (w *PollWorker) scheduleNext() {
	next := nextRunTime(time.Now(), w.hourUTC)
	duration := time.Until(next)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		w.executePoll()
		w.scheduleNext()
	})
	w.mu.Unlock()

	logger.Info(LogMsgPollScheduled, "next_run_at", next)
}

// executePoll runs one cycle in a tracked goroutine
func (w *PollWorker) executePoll() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgPollStarting)

		if err := w.runner.RunCycle(ctx); err != nil {
			log.Error(LogMsgPollFailed, "error", err)
			return
		}

		log.Info(LogMsgPollCompleted)
	}()
}

// Shutdown gracefully shuts down the poll worker. It cancels the pending
// timer and waits for any in-flight cycle to complete.
func (w *PollWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down poll worker")

	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Poll worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Poll worker shutdown timeout")
		return ctx.Err()
	}
}
