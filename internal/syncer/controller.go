// Package syncer keeps a local view of one remote collection consistent with
// the store.
//
// A Controller loads the collection, applies confirmed mutations to its local
// copy and keeps the last good copy when the store fails. The local list is
// only changed after the store has confirmed a write; nothing is applied
// speculatively.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/events"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// State is the load state of a collection.
type State string

const (
	Idle    State = "idle"
	Loading State = "loading"
	Error   State = "error"
)

// DefaultFlashTTL is how long a confirmation message stays visible.
const DefaultFlashTTL = 5 * time.Second

// ErrClosed is returned by operations on a closed controller.
var ErrClosed = errors.New("controller is closed")

// Repository is the store access a Controller needs.
type Repository[T models.Record] interface {
	List(ctx context.Context) ([]T, error)
	Add(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, fields bson.M) (T, error)
	Remove(ctx context.Context, id string) error
}

// Config wires a Controller.
type Config[T models.Record] struct {
	// Name is the collection name used in messages, logs and events.
	Name       string
	Repository Repository[T]
	// Validate rejects a record before any store call. Optional.
	Validate func(T) error
	// Describe renders a record for confirmation messages. Defaults to the
	// record's Label method when it has one.
	Describe  func(T) string
	FlashTTL  time.Duration
	Publisher events.Publisher
	Logger    *log.Entry
	Now       func() time.Time
}

// Controller owns the local copy of one collection.
type Controller[T models.Record] struct {
	name      string
	repo      Repository[T]
	validate  func(T) error
	describe  func(T) string
	flashTTL  time.Duration
	publisher events.Publisher
	logger    *log.Entry
	now       func() time.Time

	submitting atomic.Bool

	mu         sync.RWMutex
	state      State
	items      []T
	loadErr    string
	errMsg     string
	flash      string
	flashGen   uint64
	flashTimer *time.Timer
	lastLoaded time.Time
	closed     bool
}

// New returns a controller in the Loading state with an empty collection.
func New[T models.Record](cfg Config[T]) *Controller[T] {
	c := &Controller[T]{
		name:      cfg.Name,
		repo:      cfg.Repository,
		validate:  cfg.Validate,
		describe:  cfg.Describe,
		flashTTL:  cfg.FlashTTL,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       cfg.Now,
		state:     Loading,
		items:     []T{},
	}
	if c.flashTTL <= 0 {
		c.flashTTL = DefaultFlashTTL
	}
	if c.publisher == nil {
		c.publisher = events.Nop{}
	}
	if c.logger == nil {
		c.logger = log.NewEntry(log.StandardLogger())
	}
	c.logger = c.logger.WithField("collection", cfg.Name)
	if c.now == nil {
		c.now = time.Now
	}
	if c.describe == nil {
		c.describe = describe[T]
	}
	return c
}

// Name returns the collection name.
func (c *Controller[T]) Name() string { return c.name }

// Load replaces the local collection with the store's. On failure the
// previous collection is kept and the controller enters the Error state.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state = Loading
	c.mu.Unlock()

	items, err := c.repo.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.state = Error
		c.loadErr = apperr.Message(err)
		c.errMsg = ""
		c.logger.WithError(err).Warn("load failed, keeping last loaded items")
		return err
	}
	c.items = items
	c.state = Idle
	c.loadErr = ""
	c.errMsg = ""
	c.lastLoaded = c.now()
	c.logger.WithField("count", len(items)).Debug("loaded")
	return nil
}

// Add validates rec, creates it in the store and prepends the stored record.
func (c *Controller[T]) Add(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := c.begin(rec); err != nil {
		return zero, err
	}
	defer c.submitting.Store(false)

	created, err := c.repo.Add(ctx, rec)
	if err != nil {
		c.fail("add", err)
		return zero, err
	}

	c.apply(func() {
		c.items = append([]T{created}, c.items...)
		c.setFlash(fmt.Sprintf("%s added successfully", c.describe(created)))
	})
	c.announce(ctx, events.Created, created)
	return created, nil
}

// Update validates rec, writes all its fields to the record with the given
// id and replaces the local entry with the stored result.
func (c *Controller[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T
	if err := c.begin(rec); err != nil {
		return zero, err
	}
	defer c.submitting.Store(false)

	fields, err := models.FieldsOf(rec)
	if err != nil {
		c.fail("update", err)
		return zero, err
	}

	updated, err := c.repo.Update(ctx, id, fields)
	if err != nil {
		c.fail("update", err)
		return zero, err
	}

	c.apply(func() {
		for i := range c.items {
			if c.items[i].RecordID() == updated.RecordID() {
				c.items[i] = updated
				break
			}
		}
		c.setFlash(fmt.Sprintf("%s updated successfully", c.describe(updated)))
	})
	c.announce(ctx, events.Updated, updated)
	return updated, nil
}

// Remove deletes the record with the given id and drops it from the local
// collection. Removing a record that is already gone succeeds.
func (c *Controller[T]) Remove(ctx context.Context, id string) error {
	if !c.submitting.CompareAndSwap(false, true) {
		return apperr.ErrBusy
	}
	defer c.submitting.Store(false)
	if c.isClosed() {
		return ErrClosed
	}

	label := "Record"
	existing, found := c.Find(id)
	if found {
		label = c.describe(existing)
	}

	if err := c.repo.Remove(ctx, id); err != nil {
		c.fail("remove", err)
		return err
	}

	c.apply(func() {
		kept := c.items[:0:0]
		for _, item := range c.items {
			if item.RecordID().Hex() != id {
				kept = append(kept, item)
			}
		}
		c.items = kept
		c.setFlash(fmt.Sprintf("%s deleted successfully", label))
	})
	if found {
		c.announce(ctx, events.Deleted, existing)
	} else {
		c.announceID(ctx, events.Deleted, id, nil)
	}
	return nil
}

// Find returns the local copy of the record with the given id.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.RecordID().Hex() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the local collection.
func (c *Controller[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// State returns the current load state.
func (c *Controller[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// View is a point-in-time copy of a controller's state for rendering.
type View[T models.Record] struct {
	Collection string    `json:"collection"`
	State      State     `json:"state"`
	Items      []T       `json:"items"`
	Error      string    `json:"error,omitempty"`
	Flash      string    `json:"flash,omitempty"`
	Submitting bool      `json:"submitting"`
	LastLoaded time.Time `json:"last_loaded,omitempty"`
}

// Snapshot returns the current view.
func (c *Controller[T]) Snapshot() View[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return View[T]{
		Collection: c.name,
		State:      c.state,
		Items:      items,
		Error:      c.errorMessage(),
		Flash:      c.flash,
		Submitting: c.submitting.Load(),
		LastLoaded: c.lastLoaded,
	}
}

// errorMessage must be called with mu held. A mutation error takes precedence
// over the load error, which stays until the next successful Load.
func (c *Controller[T]) errorMessage() string {
	if c.errMsg != "" {
		return c.errMsg
	}
	return c.loadErr
}

// Close detaches the controller. Results of calls still in flight are
// discarded and pending flash timers are stopped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.flashTimer != nil {
		c.flashTimer.Stop()
	}
}

func (c *Controller[T]) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// begin claims the submit slot and validates rec. The slot is released on
// any error returned here.
func (c *Controller[T]) begin(rec T) error {
	if !c.submitting.CompareAndSwap(false, true) {
		return apperr.ErrBusy
	}
	if c.isClosed() {
		c.submitting.Store(false)
		return ErrClosed
	}
	if c.validate != nil {
		if err := c.validate(rec); err != nil {
			c.fail("validate", err)
			c.submitting.Store(false)
			return err
		}
	}
	return nil
}

// fail records a mutation error. Items and load state are not touched.
func (c *Controller[T]) fail(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.errMsg = apperr.Message(err)
	c.logger.WithError(err).WithField("op", op).Warn("mutation failed")
}

// apply runs a reconciliation step unless the controller has been closed.
// It clears the last mutation error.
func (c *Controller[T]) apply(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.errMsg = ""
	fn()
}

// setFlash must be called with mu held.
func (c *Controller[T]) setFlash(msg string) {
	c.flash = msg
	c.flashGen++
	gen := c.flashGen
	if c.flashTimer != nil {
		c.flashTimer.Stop()
	}
	c.flashTimer = time.AfterFunc(c.flashTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.flashGen == gen {
			c.flash = ""
		}
	})
	c.logger.Info(msg)
}

func (c *Controller[T]) announce(ctx context.Context, op events.Op, rec T) {
	c.announceID(ctx, op, rec.RecordID().Hex(), rec)
}

func (c *Controller[T]) announceID(ctx context.Context, op events.Op, id string, rec interface{}) {
	if c.isClosed() {
		return
	}
	e := events.Event{Collection: c.name, Op: op, ID: id, At: c.now().UTC(), Record: rec}
	if err := c.publisher.Publish(ctx, e); err != nil {
		c.logger.WithError(err).WithField("op", op).Warn("event not published")
	}
}

func describe[T models.Record](rec T) string {
	if l, ok := any(rec).(interface{ Label() string }); ok {
		return l.Label()
	}
	return "Record " + rec.RecordID().Hex()
}
