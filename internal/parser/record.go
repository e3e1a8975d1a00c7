// Package parser turns raw order-book records into validated entries.
package parser

import (
	"strings"

	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/shopspring/decimal"
)

// RecordFields is the number of fields in one order record:
// timestamp, product, side, price, amount.
const RecordFields = 5

const (
	fieldTimestamp = iota
	fieldProduct
	fieldSide
	fieldPrice
)

// ParseRecord converts one split record into an Entry.
// The fifth field (amount) is not interpreted.
func ParseRecord(fields []string) (types.Entry, error) {
	if len(fields) != RecordFields {
		return types.Entry{}, errors.Newf(errors.ErrCodeMalformedRecord,
			"expected %d fields, got %d", RecordFields, len(fields))
	}

	product := strings.TrimSpace(fields[fieldProduct])
	if product == "" {
		return types.Entry{}, errors.New(errors.ErrCodeMalformedRecord, "empty product")
	}

	price, err := ParsePrice(fields[fieldPrice])
	if err != nil {
		return types.Entry{}, err
	}

	return types.NewEntry(
		price,
		strings.TrimSpace(fields[fieldTimestamp]),
		product,
		types.ParseSide(strings.TrimSpace(fields[fieldSide])),
	), nil
}

// ParsePrice parses a finite, non-negative decimal price.
func ParsePrice(token string) (decimal.Decimal, error) {
	token = strings.TrimSpace(token)

	// decimal rejects NaN and Inf, so anything it accepts is finite
	price, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrCodeInvalidPrice, err, "bad price %q", token)
	}

	if price.IsNegative() {
		return decimal.Zero, errors.Newf(errors.ErrCodeInvalidPrice, "negative price %q", token)
	}

	return price, nil
}
