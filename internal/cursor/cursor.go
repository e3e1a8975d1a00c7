// Package cursor tracks the simulated "current time" of an advisor session.
package cursor

import (
	"sync"

	"github.com/rxtech-lab/argo-advisor/pkg/errors"
)

// Timeline is the sorted sequence of timestamps a Cursor walks.
type Timeline interface {
	EarliestTimestamp() (string, error)
	NextTimestamp(after string) (string, int, error)
}

// Position is a snapshot of a cursor: the current timestamp and its index in
// the timeline.
type Position struct {
	Timestamp string `json:"timestamp"`
	Index     int    `json:"index"`
}

// Cursor walks a Timeline one timestamp at a time and wraps back to the
// earliest timestamp after the last one. It is safe for concurrent use.
type Cursor struct {
	timeline    Timeline
	position    Position
	initialized bool
	mu          sync.RWMutex
}

// New creates an uninitialized cursor over timeline.
func New(timeline Timeline) *Cursor {
	return &Cursor{
		timeline: timeline,
		mu:       sync.RWMutex{},
	}
}

// Initialize moves the cursor to the earliest timestamp. It may only be called once.
func (c *Cursor) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return errors.New(errors.ErrCodeInvalidState, "cursor already initialized")
	}

	earliest, err := c.timeline.EarliestTimestamp()
	if err != nil {
		return err
	}

	c.position = Position{Timestamp: earliest, Index: 0}
	c.initialized = true

	return nil
}

// Advance moves to the next timestamp, wrapping to index 0 after the last
// one, and returns the new position.
func (c *Cursor) Advance() (Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return Position{}, errors.New(errors.ErrCodeInvalidState, "cursor not initialized")
	}

	next, index, err := c.timeline.NextTimestamp(c.position.Timestamp)
	if err != nil {
		return Position{}, err
	}

	c.position = Position{Timestamp: next, Index: index}

	return c.position, nil
}

// Position returns the current position.
func (c *Cursor) Position() (Position, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return Position{}, errors.New(errors.ErrCodeInvalidState, "cursor not initialized")
	}

	return c.position, nil
}

// Initialized reports whether Initialize has succeeded.
func (c *Cursor) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.initialized
}
