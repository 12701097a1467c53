package store

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/folio/internal/logger"
)

// AutoRefresh reloads a project store in the background on a fixed
// interval, so a long-running view picks up changes made elsewhere.
type AutoRefresh struct {
	projects *Projects
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewAutoRefresh starts polling projects every interval. Each reload is
// bounded by timeout when it is positive.
func NewAutoRefresh(projects *Projects, interval, timeout time.Duration) *AutoRefresh {
	a := &AutoRefresh{
		projects: projects,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	// Start background polling
	go a.pollLoop()

	return a
}

// pollLoop periodically reloads the store
func (a *AutoRefresh) pollLoop() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refresh()
		case <-a.stopCh:
			return
		}
	}
}

func (a *AutoRefresh) refresh() {
	// skip while a user action is in flight; the next tick catches up
	if a.projects.State().Loading() {
		return
	}

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger.Debug("Auto refresh")
	a.projects.Refresh(ctx)
}

// IsRunning reports whether a reload is in progress
func (a *AutoRefresh) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Stop stops polling and waits for the loop to exit
func (a *AutoRefresh) Stop() {
	close(a.stopCh)
	<-a.done
}
