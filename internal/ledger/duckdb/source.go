// Package duckdb mirrors a ledger into an in-memory DuckDB table so orders
// can be selected through SQL and analysed with ad-hoc read-only queries.
package duckdb

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-advisor/internal/ledger"
	"github.com/rxtech-lab/argo-advisor/internal/logger"
	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SQLResult represents a row of data from a SQL query.
type SQLResult struct {
	Values map[string]any `json:"values"`
}

// Source serves orders from DuckDB.
type Source struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewSource opens an in-memory DuckDB database and copies every entry of l
// into the orders table, preserving insertion order in the seq column.
func NewSource(l *ledger.Ledger, log *logger.Logger) (*Source, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, "failed to open duckdb", err)
	}

	s := &Source{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	if err := s.insert(l.Entries()); err != nil {
		db.Close()

		return nil, err
	}

	log.Debug("Mirrored ledger into duckdb", zap.Int("entries", l.Len()), zap.String("load_id", l.LoadID().String()))

	return s, nil
}

func (s *Source) initialize() error {
	// prices are stored as text to keep their exact decimal form
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			seq BIGINT PRIMARY KEY,
			timestamp TEXT,
			product TEXT,
			side TEXT,
			price TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, "failed to create orders table", err)
	}

	return nil
}

func (s *Source) insert(entries []types.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO orders (seq, timestamp, product, side, price) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeSourceUnavailable, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		_, err = stmt.Exec(int64(i), e.Timestamp, e.Product, e.Side.String(), e.Price.String())
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "failed to insert order %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, "failed to commit orders", err)
	}

	return nil
}

// Orders implements advisor.OrderSource.
func (s *Source) Orders(filter types.Filter) ([]types.Entry, error) {
	query := s.sq.
		Select("timestamp", "product", "side", "price").
		From("orders").
		Where(squirrel.Eq{"side": filter.Side.String()}).
		OrderBy("seq ASC")

	if filter.Product.IsSome() {
		query = query.Where(squirrel.Eq{"product": filter.Product.Unwrap()})
	}

	if filter.Timestamp.IsSome() {
		query = query.Where(squirrel.Eq{"timestamp": filter.Timestamp.Unwrap()})
	}

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query orders", err)
	}
	defer rows.Close()

	result := make([]types.Entry, 0)

	for rows.Next() {
		var ts, product, side, price string

		if err := rows.Scan(&ts, &product, &side, &price); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan order", err)
		}

		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "bad stored price %q", price)
		}

		result = append(result, types.NewEntry(p, ts, product, types.ParseSide(side)))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating orders", err)
	}

	return result, nil
}

// ExecuteSQL executes a raw SQL query and returns each row as a column map.
func (s *Source) ExecuteSQL(query string, params ...any) ([]SQLResult, error) {
	s.logger.Debug("Executing SQL query", zap.String("query", query))

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(params...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get columns", err)
	}

	result := make([]SQLResult, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}

		result = append(result, SQLResult{Values: rowMap})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return result, nil
}

// Close releases the database.
func (s *Source) Close() error {
	return s.db.Close()
}
