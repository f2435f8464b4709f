// Package checkout is the only writer of product stock. It commits sales and
// reservations with a validate-all then decrement-all stock rule and reverses
// them, compensating earlier writes when a later step fails and the store
// cannot roll back on its own.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/conflict"
	"github.com/balcao/backend/repository"
)

// Mode selects how stock decrements guard against concurrent writers.
type Mode string

const (
	// ModeConditional decrements with a stock >= qty guard.
	ModeConditional Mode = "conditional"
	// ModeCAS writes the new stock only while it still equals the value read
	// during validation. A lost race fails with apperr.ErrStockChanged and the
	// caller retries from the start.
	ModeCAS Mode = "cas"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeConditional:
		return ModeConditional, nil
	case ModeCAS:
		return ModeCAS, nil
	}
	return "", fmt.Errorf("%w: checkout mode %q", apperr.ErrInvalidInput, s)
}

type Coordinator struct {
	repos     repository.Repositories
	conflicts *conflict.Detector
	mode      Mode
	log       *zap.Logger
	now       func() time.Time
	newSaleID func() string

	// mu serializes checkouts issued through this process.
	mu sync.Mutex
	// moved counts stock units per direction within the running unit;
	// guarded by mu.
	moved map[string]int
}

type Option func(*Coordinator)

func WithMode(m Mode) Option {
	return func(c *Coordinator) { c.mode = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func New(repos repository.Repositories, opts ...Option) *Coordinator {
	c := &Coordinator{
		repos:     repos,
		conflicts: conflict.NewDetector(repos.Reservations),
		mode:      ModeConditional,
		log:       zap.NewNop(),
		now:       time.Now,
		newSaleID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Mode() Mode { return c.mode }

// Conflicts exposes the detector so callers can probe availability without
// committing.
func (c *Coordinator) Conflicts() *conflict.Detector { return c.conflicts }

// unit runs fn as one logical unit and records its outcome.
func (c *Coordinator) unit(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.repos.Tx.RunInTransaction(ctx, func(ctx context.Context) error {
		c.moved = map[string]int{}
		return fn(ctx)
	})
	checkoutTotal.WithLabelValues(operation, outcome(err)).Inc()
	// A failed unit on an atomic store left no stock change behind.
	if err == nil || c.compensating() {
		for direction, qty := range c.moved {
			stockUnitsMoved.WithLabelValues(direction).Add(float64(qty))
		}
	}
	c.moved = nil
	return err
}

// recordMove notes qty units moved in direction by the running unit.
func (c *Coordinator) recordMove(direction string, qty int) {
	c.moved[direction] += qty
}

// compensating reports whether the coordinator must undo its own writes.
// An atomic store discards them together with the failed unit.
func (c *Coordinator) compensating() bool {
	return !c.repos.Tx.Atomic()
}

// partial reports a reversal whose stock was restored but whose record
// could not be deleted. On an atomic store the restore is rolled back with
// the unit, so err is returned as is.
func (c *Coordinator) partial(what string, err error) error {
	if !c.compensating() {
		return err
	}
	return fmt.Errorf("%w: %s: %w", apperr.ErrPartialCancellation, what, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrStorageUnavailable), errors.Is(err, apperr.ErrPartialCancellation):
		return "error"
	default:
		return "rejected"
	}
}

func parseID(hex string, kind error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", kind, hex)
	}
	return id, nil
}
