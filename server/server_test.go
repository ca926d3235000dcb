package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/event"
	"github.com/pantryshop/storefront/gateway"
	"github.com/pantryshop/storefront/model"
	"github.com/pantryshop/storefront/storage"
	"github.com/pantryshop/storefront/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{MongoURL: "memory://test", DBName: "storefront_test"}
	cfg.ApplyDefaults()
	return cfg
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	app, err := New(context.Background(), testConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func do(app http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresDatabaseSettings(t *testing.T) {
	_, err := New(context.Background(), &config.Config{})
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))

	_, err = New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNew_UnsupportedStorage(t *testing.T) {
	cfg := testConfig()
	cfg.MongoURL = "redis://localhost"
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.False(t, config.IsConfigError(err))
	assert.Contains(t, err.Error(), "failed to initialize storage")
}

func TestNew_UnsupportedEventDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Event.Driver = "kafka"
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize event bus")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MONGO_URL", "memory://env")
	t.Setenv("DB_NAME", "from_env")

	app, err := Load(context.Background(), "/nonexistent/storefront.config.json")
	require.NoError(t, err)
	defer app.Close(context.Background())
	assert.Equal(t, "from_env", app.Config().DBName)
}

func TestRoot(t *testing.T) {
	app := newTestApp(t)
	rec := do(app, http.MethodGet, "/api/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String())
}

func TestStatusChecks_CreateAndList(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodPost, "/api/status", `{"client_name":"web"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created model.StatusCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "web", created.ClientName)
	assert.NotEmpty(t, created.ID)

	rec = do(app, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.StatusCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestStatusChecks_EmptyListIsArray(t *testing.T) {
	app := newTestApp(t)
	rec := do(app, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatusChecks_InvalidBody(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodPost, "/api/status", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"invalid request body"}`, rec.Body.String())

	rec = do(app, http.MethodPost, "/api/status", `{"client_name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"client_name is required"}`, rec.Body.String())
}

func TestStatusChecks_PublishesEvent(t *testing.T) {
	bus := event.NewInProcEventBus()
	app := newTestApp(t, WithEventBus(bus))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan []byte, 1)
	require.NoError(t, bus.Subscribe(ctx, "status_check.created", func(payload []byte) {
		got <- payload
	}))

	rec := do(app, http.MethodPost, "/api/status", `{"client_name":"mobile"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case payload := <-got:
		var check model.StatusCheck
		require.NoError(t, json.Unmarshal(payload, &check))
		assert.Equal(t, "mobile", check.ClientName)
	case <-time.After(2 * time.Second):
		t.Fatal("no status_check.created event")
	}
}

type failingStorage struct {
	storage.MemoryStorage
}

func (f *failingStorage) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	return errors.New("disk full")
}

func (f *failingStorage) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	return nil, errors.New("connection reset")
}

func (f *failingStorage) Ping(ctx context.Context) error {
	return errors.New("no primary")
}

func TestStorageFailures(t *testing.T) {
	app := newTestApp(t, WithStorage(&failingStorage{}))

	rec := do(app, http.MethodPost, "/api/status", `{"client_name":"web"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(app, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(app, http.MethodGet, "/api/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := do(app, http.MethodGet, "/api/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	do(app, http.MethodGet, "/api/", "")
	rec := do(app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	rec := do(app, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS_Wildcard(t *testing.T) {
	app := newTestApp(t)
	rec := do(app, http.MethodOptions, "/api/status", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_AllowList(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigins = []string{"https://shop.example"}
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/api/", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestServeAsync_ThroughGateway(t *testing.T) {
	app := newTestApp(t)
	rec := httptest.NewRecorder()
	gateway.New(app).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_KeepsProcessLogLevelUnlessConfigured(t *testing.T) {
	require.NoError(t, utils.SetLevel("debug"))
	defer utils.SetLevel("info")

	newTestApp(t)
	assert.Equal(t, "debug", utils.Level())

	cfg := testConfig()
	cfg.Log.Level = "warn"
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close(context.Background())
	assert.Equal(t, "warn", utils.Level())
}

func TestClose_FlushesTracing(t *testing.T) {
	app, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	flushed := false
	app.shutdownTracing = func(context.Context) error {
		flushed = true
		return nil
	}
	require.NoError(t, app.Close(context.Background()))
	assert.True(t, flushed)
}

func TestNew_StdoutTracingShutsDownOnClose(t *testing.T) {
	cfg := testConfig()
	cfg.Tracing.Exporter = "stdout"
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, app.Close(context.Background()))
}
