package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

func TestObserve(t *testing.T) {
	m := New()

	ok := &models.Result{
		Success: true,
		Transactions: []models.Transaction{
			{Description: "PAGO", Amount: decimal.NewFromInt(-10), Type: models.Debit},
			{Description: "ABONO", Amount: decimal.NewFromInt(10), Type: models.Credit},
		},
		Metadata: models.Metadata{ProcessingMethod: models.MethodTable},
	}
	failed := &models.Result{
		Success:  false,
		Metadata: models.Metadata{ProcessingMethod: models.MethodFallback},
	}

	m.Observe(ok, 20*time.Millisecond)
	m.Observe(ok, 30*time.Millisecond)
	m.Observe(failed, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsProcessed.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsProcessed.WithLabelValues(StatusFailure)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.TransactionsExtracted.WithLabelValues("table")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProcessingDuration))
}

func TestObserve_NilSafe(t *testing.T) {
	var m *Metrics
	m.Observe(&models.Result{}, time.Second)

	New().Observe(nil, time.Second)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe(&models.Result{Success: true, Metadata: models.Metadata{ProcessingMethod: models.MethodText}}, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `statement_documents_processed_total{status="success"} 1`)
	assert.Contains(t, string(body), "statement_processing_duration_seconds_count 1")
	assert.Contains(t, string(body), "go_goroutines")
}
