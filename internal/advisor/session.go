package advisor

import (
	"github.com/rxtech-lab/argo-advisor/internal/cursor"
	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/shopspring/decimal"
)

// Session pairs an Advisor with the cursor that owns the simulated current
// time, and exposes the query contract used by the command dispatcher, the
// TUI and the HTTP API.
type Session struct {
	advisor *Advisor
	cursor  *cursor.Cursor
}

// NewSession creates a session positioned at the earliest timestamp.
// It fails with EmptyLedger when the ledger has no timeline.
func NewSession(a *Advisor) (*Session, error) {
	c := cursor.New(a.Ledger())
	if err := c.Initialize(); err != nil {
		return nil, err
	}

	return &Session{advisor: a, cursor: c}, nil
}

// Advisor returns the underlying advisor.
func (s *Session) Advisor() *Advisor {
	return s.advisor
}

// Position returns the cursor position.
func (s *Session) Position() cursor.Position {
	// the cursor is initialized in NewSession, so Position cannot fail
	pos, _ := s.cursor.Position()

	return pos
}

// ListProducts returns the sorted product list.
func (s *Session) ListProducts() []string {
	return s.advisor.ListProducts()
}

// Extreme returns the min or max price at the current time.
func (s *Session) Extreme(kind types.Extreme, product, side string) (decimal.Decimal, error) {
	return s.advisor.Extreme(s.Position(), kind, product, side)
}

// WindowedAverage returns the average over the requested steps and the
// effective number of steps used.
func (s *Session) WindowedAverage(product, side string, steps int) (decimal.Decimal, int, error) {
	return s.advisor.WindowedAverage(s.Position(), product, side, steps)
}

// ForecastExtreme predicts the next min or max price.
func (s *Session) ForecastExtreme(kind types.Extreme, product, side string) (decimal.Decimal, error) {
	return s.advisor.ForecastExtreme(s.Position(), kind, product, side)
}

// CurrentTime returns the current timestamp.
func (s *Session) CurrentTime() string {
	return s.Position().Timestamp
}

// AdvanceTime moves to the next timestamp and returns it.
func (s *Session) AdvanceTime() (string, error) {
	pos, err := s.Step()
	if err != nil {
		return "", err
	}

	return pos.Timestamp, nil
}

// Step moves to the next timestamp and returns the position this call
// produced, even when other callers advance concurrently.
func (s *Session) Step() (cursor.Position, error) {
	return s.cursor.Advance()
}

// OrdersAtCurrentTime returns every order of side at the current time.
func (s *Session) OrdersAtCurrentTime(side string) ([]types.Entry, error) {
	return s.advisor.OrdersAt(s.Position(), side)
}
