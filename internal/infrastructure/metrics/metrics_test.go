package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
)

func TestMetrics_RemoteAndHTTP(t *testing.T) {
	m := metrics.New("pos_test")

	m.ObserveRemote("list_sales", time.Now(), nil)
	m.ObserveRemote("list_sales", time.Now(), errors.New("boom"))
	m.ObserveHTTP(http.MethodGet, "/api/inventory", 200, 5*time.Millisecond)
	m.SetCollectionSize("sales", 42)
	m.SetStock("Jeans", -3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)

	assert.Contains(t, string(body), `pos_test_ledger_requests_total{op="list_sales",outcome="error"} 1`)
	assert.Contains(t, string(body), `pos_test_ledger_requests_total{op="list_sales",outcome="ok"} 1`)
	assert.Contains(t, string(body), `pos_test_ledger_collection_items{collection="sales"} 42`)
	assert.Contains(t, string(body), `pos_test_inventory_stock_units{category="Jeans"} -3`)

	count, err := testutil.GatherAndCount(m.Registry(), "pos_test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRemote("x", time.Now(), nil)
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.SetCollectionSize("sales", 1)
		m.SetStock("c", 1)
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
