package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/internal/catalog/handler"
	"atlas/internal/catalog/models"
	"atlas/internal/catalog/service"
	"atlas/internal/platform/metrics"
	"atlas/pkg/platform/sentinel"
)

type stubCatalog struct{}

func (stubCatalog) Load() {}
func (stubCatalog) SetSearchText(q string) {}
func (stubCatalog) ResetFilter() {}

func (stubCatalog) PickRandom(ctx context.Context) (models.Country, error) {
	return models.Country{}, sentinel.ErrNotFound
}

func (stubCatalog) Snapshot(ctx context.Context) service.Snapshot {
	return service.Snapshot{Status: service.StatusIdle, Countries: []models.Country{}}
}

func (stubCatalog) Subscribe(ctx context.Context) (<-chan service.Event, func()) {
	ch := make(chan service.Event)
	close(ch)
	return ch, func() {}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	m := metrics.NewWith(prometheus.NewRegistry())
	h := handler.New(stubCatalog{}, log)
	return NewRouter(h, log, m)
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRouter_Healthz(t *testing.T) {
	rr := get(newRouter(t), "/healthz")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_AssignsRequestID(t *testing.T) {
	rr := get(newRouter(t), "/healthz")

	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestRouter_MountsCatalogRoutes(t *testing.T) {
	rr := get(newRouter(t), "/countries")

	var snap service.Snapshot
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&snap))
	assert.Equal(t, service.StatusIdle, snap.Status)
}

func TestRouter_ExposesMetrics(t *testing.T) {
	rr := get(newRouter(t), "/metrics")

	assert.Equal(t, http.StatusOK, rr.Code)
}
