package types

import "github.com/moznion/go-optional"

// Filter selects entries by side and, optionally, product and timestamp.
// A None product or timestamp matches any value.
type Filter struct {
	Side      Side
	Product   optional.Option[string]
	Timestamp optional.Option[string]
}

// NewFilter builds a Filter from string arguments where "" is a wildcard.
func NewFilter(side Side, product, timestamp string) Filter {
	return Filter{
		Side:      side,
		Product:   wildcard(product),
		Timestamp: wildcard(timestamp),
	}
}

// Matches reports whether e satisfies all three predicates of the filter.
func (f Filter) Matches(e Entry) bool {
	if e.Side != f.Side {
		return false
	}

	if f.Product.IsSome() && e.Product != f.Product.Unwrap() {
		return false
	}

	if f.Timestamp.IsSome() && e.Timestamp != f.Timestamp.Unwrap() {
		return false
	}

	return true
}

func wildcard(value string) optional.Option[string] {
	if value == "" {
		return optional.None[string]()
	}

	return optional.Some(value)
}
