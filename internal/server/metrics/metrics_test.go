package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsEventsAndCallbacks(t *testing.T) {
	m := New()

	m.Notify(context.Background(), &models.Event{Kind: models.EventRecordRevealed})
	m.Notify(context.Background(), &models.Event{Kind: models.EventRecordRevealed})
	m.Notify(context.Background(), &models.Event{Kind: models.EventCountersReset})
	m.ObserveCallback("record", http.StatusNoContent)
	m.ObserveCallback("record", http.StatusConflict)
	m.ObserveRPC("/reveal.Reveal/Ping", "OK", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues(models.EventRecordRevealed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(models.EventCountersReset)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callbacks.WithLabelValues("record", "Conflict")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Notify(context.Background(), &models.Event{Kind: models.EventRecordSubmitted})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `gophreveal_events_total{kind="record_submitted"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
