package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the bid/ask classification of an order.
type Side string

const (
	SideBid     Side = "bid"
	SideAsk     Side = "ask"
	SideUnknown Side = "unknown"
)

// ParseSide maps a raw token onto a Side. Any token other than "bid" or "ask"
// becomes SideUnknown; the mapping never fails.
func ParseSide(token string) Side {
	switch token {
	case string(SideBid):
		return SideBid
	case string(SideAsk):
		return SideAsk
	default:
		return SideUnknown
	}
}

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case SideBid, SideAsk:
		return string(s)
	default:
		return string(SideUnknown)
	}
}

// IsQueryable reports whether s can be requested by a side filter.
func (s Side) IsQueryable() bool {
	return s == SideBid || s == SideAsk
}

// IsValidSide reports whether token is one of the two recognized side tokens.
func IsValidSide(token string) bool {
	return ParseSide(token).IsQueryable()
}

// Entry is one validated order record. Entries are treated as immutable once loaded.
type Entry struct {
	Price     decimal.Decimal `json:"price" yaml:"price"`
	Timestamp string          `json:"timestamp" yaml:"timestamp"`
	Product   string          `json:"product" yaml:"product"`
	Side      Side            `json:"side" yaml:"side"`
}

// NewEntry creates an Entry.
func NewEntry(price decimal.Decimal, timestamp, product string, side Side) Entry {
	return Entry{
		Price:     price,
		Timestamp: timestamp,
		Product:   product,
		Side:      side,
	}
}

// GetPrice returns the entry price.
func (e Entry) GetPrice() decimal.Decimal {
	return e.Price
}

// String renders the entry as "timestamp | product | side | price".
func (e Entry) String() string {
	return fmt.Sprintf("%s | %s | %s | %s", e.Timestamp, e.Product, e.Side, e.Price.StringFixed(6))
}

// Priced is anything that can be reduced to a price.
type Priced interface {
	GetPrice() decimal.Decimal
}

// Price is a bare price value satisfying Priced.
type Price decimal.Decimal

// GetPrice returns p as a decimal.
func (p Price) GetPrice() decimal.Decimal {
	return decimal.Decimal(p)
}
