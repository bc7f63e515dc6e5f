package workers

import (
	"channel-gate/contract"
	"channel-gate/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const waitTimeBeforeRestart = 200 * time.Millisecond

// Supervisor Own a context and a Cancel function
// Run each worker in a goroutine
// Check panics and errors
// Restart workers automatically
// Shutdown properly if parent context is canceled
// Wait for the end of all goroutines via WaitGroup
type Supervisor struct {
	Cancel  context.CancelFunc // To stop the context
	wg      *sync.WaitGroup    // Wait for the end of goroutines
	log     *slog.Logger
	workers []contract.Worker
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log}
}

// Run Create a local cancellation trigger tied to the parent ctx
//
//	// If the parent (main) cancels, we Cancel.
//	// If WE call s.Cancel(), only our children Cancel.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs a worker under supervision in a dedicated goroutine.
// A failure in one worker must not stop the supervisor itself.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		Supervise(ctx, s.log, worker)
	}()
}

// Stop Cancel all goroutines listening channel for Ctx.Done
// Supervisor will wait for all goroutines to finish
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}

// Supervise runs worker until it returns nil or ctx is canceled.
// If its Run method panics or fails, the worker is restarted after a short delay.
// It blocks, callers own the goroutine.
func Supervise(ctx context.Context, log *slog.Logger, worker contract.Worker) {
	workerName := contract.GetWorkerName(worker)

	for {
		if ctx.Err() != nil {
			log.Debug(fmt.Sprintf("Stopping : %s", workerName))
			return
		}

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
				}
			}()
			return worker.Run(ctx)
		}()

		if err == nil {
			// Terminated properly, never restart !
			log.Debug(fmt.Sprintf("Worker finished : %s", workerName))
			return
		}

		if ctx.Err() != nil {
			log.Debug("Worker stopped (context canceled)", "name", workerName)
			return
		}

		log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
		select {
		case <-ctx.Done():
			// Context canceled: priority stop.
			return
		case <-time.After(waitTimeBeforeRestart):
		}
	}
}
