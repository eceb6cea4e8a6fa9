package jobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	scans   []int
	rollups []string
}

func (s *stubEnqueuer) EnqueueLowStockScan(ctx context.Context, limit int) (*asynq.TaskInfo, error) {
	s.scans = append(s.scans, limit)
	return &asynq.TaskInfo{ID: "scan-1", Queue: QueueDefault}, nil
}

func (s *stubEnqueuer) EnqueueSalesRollup(ctx context.Context, day string) (*asynq.TaskInfo, error) {
	s.rollups = append(s.rollups, day)
	return &asynq.TaskInfo{ID: "rollup-1", Queue: QueueDefault}, nil
}

func newTestRouter(enq Enqueuer) chi.Router {
	h := NewHandler(nil, enq, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestRunLowStockScanEnqueues(t *testing.T) {
	enq := &stubEnqueuer{}
	router := newTestRouter(enq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/low-stock-scan", strings.NewReader(`{"limit": 5}`)))

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, []int{5}, enq.scans)

	var view enqueuedView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "scan-1", view.ID)
	assert.Equal(t, QueueDefault, view.Queue)
}

func TestRunRollupEnqueues(t *testing.T) {
	enq := &stubEnqueuer{}
	router := newTestRouter(enq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/rollup", strings.NewReader(`{"day": "2025-03-01"}`)))

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"2025-03-01"}, enq.rollups)
}

func TestRunRollupDefaultsToYesterday(t *testing.T) {
	enq := &stubEnqueuer{}
	router := newTestRouter(enq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/rollup", nil))

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{""}, enq.rollups)
}

func TestRunRollupRejectsBadDay(t *testing.T) {
	enq := &stubEnqueuer{}
	router := newTestRouter(enq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/rollup", strings.NewReader(`{"day": "01/03/2025"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, enq.rollups)
}

func TestRunWithoutEnqueuerUnavailable(t *testing.T) {
	router := newTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/rollup", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
