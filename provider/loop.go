package provider

import (
	"context"
	"time"

	"github.com/robocompute/robocompute-go/api"
)

// OnTaskAssigned registers a handler for newly observed tasks. Handlers are
// invoked in registration order; one handler's failure does not affect the
// others.
func (a *Agent) OnTaskAssigned(handler TaskHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers = append(a.handlers, handler)
}

// Start launches the background assignment loop. Calling Start on a running
// agent is a no-op.
func (a *Agent) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return
	}
	a.running = true
	a.done = make(chan struct{})

	go a.listen(a.done)
}

// Stop terminates the assignment loop. Safe to call on a stopped agent.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false
	close(a.done)
}

// listen polls for available tasks until done is closed. The loop is
// best-effort: listing failures back off and retry indefinitely, handler
// failures are logged and skipped. There is no termination condition other
// than Stop.
func (a *Agent) listen(done chan struct{}) {
	for {
		tasks, err := a.Tasks.Available(context.Background())
		if err != nil {
			a.log.Warn().Err(err).Msg("listing available tasks failed")
			if !sleep(done, a.errorBackoff) {
				return
			}
			continue
		}

		for _, task := range tasks {
			a.dispatch(task)
		}

		if !sleep(done, a.pollInterval) {
			return
		}
	}
}

// dispatch hands one task to every registered handler. A task stays in the
// available list until accepted, so handlers see it once per poll cycle;
// delivery is at-least-once by design of the marketplace, not deduplicated
// here.
func (a *Agent) dispatch(task api.Task) {
	a.mu.Lock()
	handlers := make([]TaskHandler, len(a.handlers))
	copy(handlers, a.handlers)
	a.mu.Unlock()

	for _, handler := range handlers {
		a.invoke(handler, task)
	}
}

func (a *Agent) invoke(handler TaskHandler, task api.Task) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Any("panic", r).Str("task_id", task.ID).Msg("task handler panicked")
		}
	}()

	if err := handler(task); err != nil {
		a.log.Warn().Err(err).Str("task_id", task.ID).Msg("task handler failed")
	}
}

// sleep waits for d or until done closes; it reports false when done closed.
func sleep(done chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}
