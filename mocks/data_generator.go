package mocks

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/shopspring/decimal"
)

// TimestampLayout matches the order book exchange export format.
const TimestampLayout = "2006/01/02 15:04:05.000000"

// DataGenerator generates order book snapshots for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how order book data is generated.
type GeneratorConfig struct {
	// Products are the trading pairs, e.g. "ETH/BTC"
	Products []string
	// StartTime is the first snapshot time
	StartTime time.Time
	// Interval is the duration between snapshots
	Interval time.Duration
	// Steps is the number of snapshots
	Steps int
	// Depth is the number of bids and asks per product per snapshot
	Depth int
	// InitialPrice is the starting mid price
	InitialPrice float64
	// Volatility controls mid price movement between snapshots
	Volatility float64
	// Spread is the relative distance between the best bid and best ask
	Spread float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Products:     []string{"BTC/USDT", "DOGE/BTC", "ETH/BTC"},
		StartTime:    time.Date(2020, 3, 17, 17, 1, 24, 884492000, time.UTC),
		Interval:     5 * time.Second,
		Steps:        100,
		Depth:        5,
		InitialPrice: 0.02,
		Volatility:   0.002,
		Spread:       0.001,
	}
}

// Generate creates order book entries grouped by snapshot. Within a
// snapshot, products appear in configuration order with bids before asks.
// Mid prices follow a geometric Brownian motion per product.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Entry {
	mids := make([]float64, len(config.Products))
	for i := range mids {
		// vary the starting price slightly per product
		mids[i] = config.InitialPrice * (0.8 + g.rng.Float64()*0.4)
	}

	data := make([]types.Entry, 0, config.Steps*len(config.Products)*config.Depth*2)
	currentTime := config.StartTime

	for step := 0; step < config.Steps; step++ {
		ts := currentTime.Format(TimestampLayout)

		for p, product := range config.Products {
			mid := mids[p]
			half := mid * config.Spread / 2

			for level := 0; level < config.Depth; level++ {
				offset := half + g.rng.Float64()*config.Volatility*mid*float64(level+1)
				data = append(data, types.NewEntry(price(mid-offset), ts, product, types.SideBid))
			}

			for level := 0; level < config.Depth; level++ {
				offset := half + g.rng.Float64()*config.Volatility*mid*float64(level+1)
				data = append(data, types.NewEntry(price(mid+offset), ts, product, types.SideAsk))
			}

			// Box-Muller transform for a normally distributed move
			u1 := 1 - g.rng.Float64()
			u2 := g.rng.Float64()
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

			next := mid * (1 + config.Volatility*z)
			if next <= 0 {
				next = mid * 0.99
			}

			mids[p] = next
		}

		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// Generate10K is a convenience function to generate roughly 10,000 entries
// with default settings for benchmarking.
func Generate10K() []types.Entry {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Steps = 10000 / (len(config.Products) * config.Depth * 2)

	return gen.Generate(config)
}

// WriteCSV writes entries in the five column order book layout
// timestamp,product,side,price,amount.
func WriteCSV(w io.Writer, entries []types.Entry) error {
	cw := csv.NewWriter(w)

	for _, e := range entries {
		record := []string{e.Timestamp, e.Product, e.Side.String(), e.Price.String(), "1"}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func price(val float64) decimal.Decimal {
	if val <= 0 {
		val = 1e-8
	}

	return decimal.NewFromFloat(val).Round(8)
}
