// Package dashboard coordinates the per-collection controllers behind the
// fleet dashboard.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Loader is anything that can refresh itself from the store.
type Loader interface {
	Name() string
	Load(ctx context.Context) error
}

// Status describes the outcome of the latest full load.
type Status struct {
	LastUpdate  time.Time         `json:"last_update"`
	LastAttempt time.Time         `json:"last_attempt"`
	Error       string            `json:"error,omitempty"`
	Failures    map[string]string `json:"failures,omitempty"`
}

// Coordinator loads every registered collection concurrently and reloads
// them all on a fixed interval. The periodic reload is the only mechanism
// that brings dependent collections back in line after a mutation.
type Coordinator struct {
	loaders  []Loader
	interval time.Duration
	logger   *log.Entry
	now      func() time.Time

	mu     sync.RWMutex
	status Status
}

// NewCoordinator returns a coordinator over loaders.
func NewCoordinator(interval time.Duration, logger *log.Entry, loaders ...Loader) *Coordinator {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Coordinator{
		loaders:  loaders,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// LoadAll loads every collection in parallel. A failing collection does not
// stop the others; the first error to occur is returned and recorded.
func (c *Coordinator) LoadAll(ctx context.Context) error {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures = map[string]string{}
	)
	started := c.now()
	for _, l := range c.loaders {
		l := l
		g.Go(func() error {
			if err := l.Load(ctx); err != nil {
				mu.Lock()
				failures[l.Name()] = err.Error()
				mu.Unlock()
				return fmt.Errorf("load %s: %w", l.Name(), err)
			}
			return nil
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.LastAttempt = started
	c.status.Failures = nil
	if len(failures) > 0 {
		c.status.Failures = failures
	}
	if err != nil {
		c.status.Error = err.Error()
		c.logger.WithError(err).WithField("failed", len(failures)).Warn("dashboard load incomplete")
		return err
	}
	c.status.Error = ""
	c.status.LastUpdate = c.now()
	c.logger.WithField("collections", len(c.loaders)).Debug("dashboard loaded")
	return nil
}

// Run loads everything once and then again every interval until ctx ends.
// Reload errors are recorded in Status; they never stop the loop.
func (c *Coordinator) Run(ctx context.Context) {
	_ = c.LoadAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("reload loop stopped")
			return
		case <-ticker.C:
			_ = c.LoadAll(ctx)
		}
	}
}

// Status returns the outcome of the latest load.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.status
	if c.status.Failures != nil {
		s.Failures = make(map[string]string, len(c.status.Failures))
		for k, v := range c.status.Failures {
			s.Failures[k] = v
		}
	}
	return s
}
