package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	r := New()

	r.ObserveQuery("extreme", time.Now(), nil)
	r.ObserveQuery("extreme", time.Now(), nil)
	r.ObserveQuery("extreme", time.Now(), errors.New(errors.ErrCodeUnknownProduct, "unknown product"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Queries.WithLabelValues("extreme", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Queries.WithLabelValues("extreme", "unknown_product")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.QueryDuration))
}

func TestSetLedger(t *testing.T) {
	r := New()
	r.SetLedger(120, 3)

	assert.Equal(t, 120.0, testutil.ToFloat64(r.LedgerEntries))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.SkippedRows))
}

func TestHandler(t *testing.T) {
	r := New()
	r.SetLedger(5, 0)
	r.ObserveQuery("products", time.Now(), nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "advisor_ledger_entries 5")
	assert.Contains(t, string(body), `advisor_queries_total{operation="products",result="ok"} 1`)
}
