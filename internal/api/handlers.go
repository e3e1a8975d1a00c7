package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ProductsResponse lists the known products.
type ProductsResponse struct {
	Products []string `json:"products"`
}

// OrdersResponse lists the orders at the current time.
type OrdersResponse struct {
	Timestamp string        `json:"timestamp"`
	Side      string        `json:"side"`
	Orders    []types.Entry `json:"orders"`
}

// PriceResponse carries one extreme or forecast price.
type PriceResponse struct {
	Kind      types.Extreme   `json:"kind"`
	Product   string          `json:"product"`
	Side      string          `json:"side"`
	Timestamp string          `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

// AverageResponse carries a windowed average.
type AverageResponse struct {
	Product        string          `json:"product"`
	Side           string          `json:"side"`
	RequestedSteps int             `json:"requested_steps"`
	EffectiveSteps int             `json:"effective_steps"`
	Average        decimal.Decimal `json:"average"`
}

// HealthResponse reports the loaded ledger.
type HealthResponse struct {
	Status    string `json:"status"`
	Products  int    `json:"products"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Products:  len(s.session.ListProducts()),
		Timestamp: s.session.CurrentTime(),
	})
}

func (s *Server) products(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	products := s.session.ListProducts()
	s.observe("products", start, nil)

	writeJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

func (s *Server) currentTime(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Position())
}

func (s *Server) step(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	pos, err := s.session.Step()
	s.observe("step", start, err)

	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, pos)
}

func (s *Server) orders(w http.ResponseWriter, r *http.Request) {
	side := r.URL.Query().Get("side")
	pos := s.session.Position()

	start := time.Now()
	orders, err := s.session.Advisor().OrdersAt(pos, side)
	s.observe("list", start, err)

	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, OrdersResponse{Timestamp: pos.Timestamp, Side: side, Orders: orders})
}

func (s *Server) extreme(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	product, side := query.Get("product"), query.Get("side")

	kind, err := types.ParseExtreme(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, err)

		return
	}

	pos := s.session.Position()

	start := time.Now()
	price, err := s.session.Advisor().Extreme(pos, kind, product, side)
	s.observe(string(kind), start, err)

	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, PriceResponse{Kind: kind, Product: product, Side: side, Timestamp: pos.Timestamp, Price: price})
}

func (s *Server) average(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	product, side := query.Get("product"), query.Get("side")

	steps, err := strconv.Atoi(query.Get("steps"))
	if err != nil {
		writeError(w, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "bad value for 'steps': %q", query.Get("steps")))

		return
	}

	start := time.Now()
	avg, effective, err := s.session.WindowedAverage(product, side, steps)
	s.observe("avg", start, err)

	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, AverageResponse{
		Product:        product,
		Side:           side,
		RequestedSteps: steps,
		EffectiveSteps: effective,
		Average:        avg,
	})
}

func (s *Server) forecast(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	product, side := query.Get("product"), query.Get("side")

	kind, err := types.ParseExtreme(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, err)

		return
	}

	pos := s.session.Position()

	start := time.Now()
	price, err := s.session.Advisor().ForecastExtreme(pos, kind, product, side)
	s.observe("predict", start, err)

	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, PriceResponse{Kind: kind, Product: product, Side: side, Timestamp: pos.Timestamp, Price: price})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "no route for " + r.URL.Path})
}

func (s *Server) observe(operation string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveQuery(operation, start, err)
	}
}

// StatusCode maps an error code onto an HTTP status.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnknownProduct:
		return http.StatusNotFound
	case errors.ErrCodeInvalidSide, errors.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case errors.ErrCodeEmptyInput:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeEmptyLedger, errors.ErrCodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusCode(err), ErrorResponse{Code: errors.GetCode(err).String(), Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
