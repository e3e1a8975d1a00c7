package types

import "github.com/rxtech-lab/argo-advisor/pkg/errors"

// Extreme selects which end of the price range a query is interested in.
type Extreme string

const (
	ExtremeMin Extreme = "min"
	ExtremeMax Extreme = "max"
)

// ParseExtreme converts "min" or "max" into an Extreme.
func ParseExtreme(token string) (Extreme, error) {
	switch Extreme(token) {
	case ExtremeMin, ExtremeMax:
		return Extreme(token), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "invalid argument for <min/max>: %q", token)
	}
}
