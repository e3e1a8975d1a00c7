// Package ledger holds the immutable, fully loaded collection of order-book
// entries and the product and timeline indexes derived from it.
package ledger

import (
	"io"
	"maps"
	"os"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-advisor/internal/logger"
	"github.com/rxtech-lab/argo-advisor/internal/parser"
	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Ledger owns every entry loaded from a data file, in file order, plus the
// sorted distinct products and timestamps. It is never modified after construction.
type Ledger struct {
	entries    []types.Entry
	products   []string
	productSet map[string]struct{}
	timestamps []string
	skipped    int
	loadID     uuid.UUID
}

type options struct {
	logger   *logger.Logger
	progress io.Writer
}

// Option configures how a ledger is loaded.
type Option func(*options)

// WithLogger sets the logger used for skipped rows and the load summary.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithProgress renders a byte progress bar to w while the source is read.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Load reads the data file at path. Rows that fail to parse are skipped and
// counted; only a source that cannot be opened is an error.
func Load(path string, opts ...Option) (*Ledger, error) {
	o := newOptions(opts)

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "couldn't open data file %s", path)
	}
	defer file.Close()

	size := int64(-1)
	if info, statErr := file.Stat(); statErr == nil {
		size = info.Size()
	}

	l, err := load(file, size, o)
	if err != nil {
		return nil, err
	}

	o.logger.Info("Loaded ledger",
		zap.String("path", path),
		zap.String("load_id", l.loadID.String()),
		zap.Int("entries", len(l.entries)),
		zap.Int("skipped", l.skipped),
		zap.Int("products", len(l.products)),
		zap.Int("timestamps", len(l.timestamps)),
	)

	return l, nil
}

// LoadReader builds a ledger from r using the same rules as Load.
func LoadReader(r io.Reader, opts ...Option) (*Ledger, error) {
	return load(r, -1, newOptions(opts))
}

func load(r io.Reader, size int64, o options) (*Ledger, error) {
	if o.progress != nil {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(o.progress),
			progressbar.OptionSetDescription("loading orders"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()

		r = io.TeeReader(r, bar)
	}

	var (
		entries []types.Entry
		skipped int
	)

	for record, err := range parser.NewReader(r).All() {
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeSourceUnavailable) {
				return nil, err
			}

			skipped++
			o.logger.Warn("Skipping bad record", zap.Int("line", record.Line), zap.Error(err))

			continue
		}

		entry, err := parser.ParseRecord(record.Fields)
		if err != nil {
			skipped++
			o.logger.Warn("Skipping bad record", zap.Int("line", record.Line), zap.Error(err))

			continue
		}

		entries = append(entries, entry)
	}

	l := build(entries)
	l.skipped = skipped

	return l, nil
}

// New builds a ledger from already validated entries. The slice is copied.
func New(entries []types.Entry) *Ledger {
	return build(slices.Clone(entries))
}

func build(entries []types.Entry) *Ledger {
	productSet := make(map[string]struct{})
	timestampSet := make(map[string]struct{})

	for _, e := range entries {
		productSet[e.Product] = struct{}{}
		timestampSet[e.Timestamp] = struct{}{}
	}

	return &Ledger{
		entries:    entries,
		products:   slices.Sorted(maps.Keys(productSet)),
		productSet: productSet,
		timestamps: slices.Sorted(maps.Keys(timestampSet)),
		loadID:     uuid.New(),
	}
}

// GetOrders returns every entry of the given side whose product and timestamp
// match. An empty product or timestamp matches anything. Insertion order is kept.
func (l *Ledger) GetOrders(side types.Side, product, timestamp string) []types.Entry {
	return l.Select(types.NewFilter(side, product, timestamp))
}

// Select returns the entries matching filter in insertion order.
func (l *Ledger) Select(filter types.Filter) []types.Entry {
	result := make([]types.Entry, 0)

	for _, e := range l.entries {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}

	return result
}

// Orders implements the façade's OrderSource. The in-memory ledger never fails.
func (l *Ledger) Orders(filter types.Filter) ([]types.Entry, error) {
	return l.Select(filter), nil
}

// ProductExists reports whether name is one of the loaded products.
func (l *Ledger) ProductExists(name string) bool {
	_, ok := l.productSet[name]

	return ok
}

// IsValidSide reports whether token names a queryable side.
func (l *Ledger) IsValidSide(token string) bool {
	return types.IsValidSide(token)
}

// EarliestTimestamp returns the first timestamp of the timeline.
func (l *Ledger) EarliestTimestamp() (string, error) {
	if len(l.timestamps) == 0 {
		return "", errors.New(errors.ErrCodeEmptyLedger, "ledger has no timestamps")
	}

	return l.timestamps[0], nil
}

// NextTimestamp returns the smallest timestamp strictly after the given one
// and its index. Past the end of the timeline it wraps to the first timestamp.
func (l *Ledger) NextTimestamp(after string) (string, int, error) {
	if len(l.timestamps) == 0 {
		return "", 0, errors.New(errors.ErrCodeEmptyLedger, "ledger has no timestamps")
	}

	i := sort.SearchStrings(l.timestamps, after)
	if i < len(l.timestamps) && l.timestamps[i] == after {
		i++
	}

	if i >= len(l.timestamps) {
		return l.timestamps[0], 0, nil
	}

	return l.timestamps[i], i, nil
}

// TimestampAt returns the timestamp at position index of the timeline.
func (l *Ledger) TimestampAt(index int) (string, error) {
	if index < 0 || index >= len(l.timestamps) {
		return "", errors.Newf(errors.ErrCodeInvalidParameter,
			"timestamp index %d out of range [0, %d)", index, len(l.timestamps))
	}

	return l.timestamps[index], nil
}

// Products returns the sorted distinct products.
func (l *Ledger) Products() []string {
	return slices.Clone(l.products)
}

// Timestamps returns the sorted distinct timestamps.
func (l *Ledger) Timestamps() []string {
	return slices.Clone(l.timestamps)
}

// Entries returns every loaded entry in file order.
func (l *Ledger) Entries() []types.Entry {
	return slices.Clone(l.entries)
}

// Len returns the number of loaded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Skipped returns how many rows were rejected during load.
func (l *Ledger) Skipped() int {
	return l.skipped
}

// LoadID identifies this load in logs.
func (l *Ledger) LoadID() uuid.UUID {
	return l.loadID
}
