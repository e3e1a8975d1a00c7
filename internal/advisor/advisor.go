// Package advisor answers order-book queries by combining the ledger, an
// order source and the aggregation engine at a given cursor position.
package advisor

import (
	"github.com/rxtech-lab/argo-advisor/internal/aggregate"
	"github.com/rxtech-lab/argo-advisor/internal/cursor"
	"github.com/rxtech-lab/argo-advisor/internal/ledger"
	"github.com/rxtech-lab/argo-advisor/internal/logger"
	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderSource returns the entries matching a filter in ledger insertion order.
type OrderSource interface {
	Orders(filter types.Filter) ([]types.Entry, error)
}

// Advisor is stateless: every query receives the cursor position it runs at.
type Advisor struct {
	ledger *ledger.Ledger
	source OrderSource
	log    *logger.Logger
}

// New creates an Advisor. When source is nil the ledger itself serves orders.
func New(l *ledger.Ledger, source OrderSource, log *logger.Logger) *Advisor {
	if source == nil {
		source = l
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Advisor{
		ledger: l,
		source: source,
		log:    log,
	}
}

// Ledger returns the ledger the advisor reads its timeline from.
func (a *Advisor) Ledger() *ledger.Ledger {
	return a.ledger
}

// ListProducts returns the sorted product list.
func (a *Advisor) ListProducts() []string {
	return a.ledger.Products()
}

// Extreme returns the minimum or maximum price of product on side at pos.
func (a *Advisor) Extreme(pos cursor.Position, kind types.Extreme, product, side string) (decimal.Decimal, error) {
	s, err := a.validate(product, side)
	if err != nil {
		return decimal.Zero, err
	}

	orders, err := a.orders(types.NewFilter(s, product, pos.Timestamp))
	if err != nil {
		return decimal.Zero, err
	}

	return aggregate.ExtremePrice(kind, orders)
}

// WindowedAverage averages the time sorted orders of product on side over
// the requested number of steps, clamped to the steps elapsed at pos.
// The effective window is returned with the average.
func (a *Advisor) WindowedAverage(pos cursor.Position, product, side string, steps int) (decimal.Decimal, int, error) {
	s, err := a.validate(product, side)
	if err != nil {
		return decimal.Zero, 0, err
	}

	orders, err := a.orders(types.NewFilter(s, product, ""))
	if err != nil {
		return decimal.Zero, 0, err
	}

	avg, effective := aggregate.WindowedAverage(aggregate.SortByTimestamp(orders), steps, pos.Index)
	if effective < steps {
		a.log.Debug("Clamped averaging window",
			zap.Int("requested", steps),
			zap.Int("effective", effective),
			zap.Int("step", pos.Index),
		)
	}

	return avg, effective, nil
}

// ForecastExtreme averages the per-timestep extremes of product on side from
// the first timestep up to and including pos.
func (a *Advisor) ForecastExtreme(pos cursor.Position, kind types.Extreme, product, side string) (decimal.Decimal, error) {
	s, err := a.validate(product, side)
	if err != nil {
		return decimal.Zero, err
	}

	groups := make([][]types.Entry, 0, pos.Index+1)

	for i := 0; i <= pos.Index; i++ {
		ts, err := a.ledger.TimestampAt(i)
		if err != nil {
			return decimal.Zero, err
		}

		orders, err := a.orders(types.NewFilter(s, product, ts))
		if err != nil {
			return decimal.Zero, err
		}

		groups = append(groups, orders)
	}

	return aggregate.ForecastNextExtreme(groups, kind)
}

// OrdersAt returns every order of side at pos, across all products.
func (a *Advisor) OrdersAt(pos cursor.Position, side string) ([]types.Entry, error) {
	if !a.ledger.IsValidSide(side) {
		return nil, errors.Newf(errors.ErrCodeInvalidSide, "invalid argument for <bid/ask>: %q", side)
	}

	return a.orders(types.NewFilter(types.ParseSide(side), "", pos.Timestamp))
}

func (a *Advisor) validate(product, side string) (types.Side, error) {
	if !a.ledger.ProductExists(product) {
		return "", errors.Newf(errors.ErrCodeUnknownProduct, "unknown product: %q", product)
	}

	if !a.ledger.IsValidSide(side) {
		return "", errors.Newf(errors.ErrCodeInvalidSide, "invalid argument for <bid/ask>: %q", side)
	}

	return types.ParseSide(side), nil
}

func (a *Advisor) orders(filter types.Filter) ([]types.Entry, error) {
	orders, err := a.source.Orders(filter)
	if err != nil {
		a.log.Error("Failed to read orders", zap.String("side", filter.Side.String()), zap.Error(err))

		return nil, err
	}

	return orders, nil
}
