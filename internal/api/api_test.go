package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correspondence-workers/internal/common/database"
	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/correspondence"
	"correspondence-workers/internal/templates"
	rc "correspondence-workers/internal/workers/correspondence/render-correspondence"
)

// ==========================
// Test Helper Functions
// ==========================

type fakePinger struct {
	name string
	err  error
}

func (p fakePinger) Name() string                 { return p.name }
func (p fakePinger) Ping(_ context.Context) error { return p.err }

type brokenSource struct{}

func (brokenSource) Get(_ context.Context, _ string) (*templates.Template, error) {
	return nil, errors.NewTemplateStoreFailedError("get", fmt.Errorf("connection reset"))
}

func createTestRouter(t *testing.T, source templates.Source, checks ...database.Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if source == nil {
		source = templates.NewBuiltinSource()
	}
	log := logger.NewTestLogger(t)
	renderer := rc.NewService(rc.ServiceDependencies{
		Engine:    correspondence.New(correspondence.DefaultSettings()),
		Templates: source,
		Logger:    log,
	}, rc.DefaultConfig())

	return NewRouter(RouterConfig{
		Renderer:       renderer,
		Templates:      source,
		Checks:         checks,
		AllowedOrigins: []string{"https://office.example.com"},
		ServiceName:    "correspondence-workers-test",
		Version:        "test",
		Logger:         log,
	})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

// ==========================
// Probes
// ==========================

func TestHealth(t *testing.T) {
	rec := do(createTestRouter(t, nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestReady(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		name         string
		checks       []database.Pinger
		expectedCode int
		expectedBody string
	}{
		{
			name:         "all dependencies up",
			checks:       []database.Pinger{rdb, fakePinger{name: "postgres"}},
			expectedCode: http.StatusOK,
			expectedBody: `"status":"ready"`,
		},
		{
			name:         "postgres down",
			checks:       []database.Pinger{rdb, fakePinger{name: "postgres", err: fmt.Errorf("connection refused")}},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(createTestRouter(t, nil, tt.checks...), http.MethodGet, "/ready", "")

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(createTestRouter(t, nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// ==========================
// Preview
// ==========================

func TestPreview(t *testing.T) {
	body := `{
		"templateId": "group-reservation",
		"inquiry": {"customerName": "Anna Keller", "eventType": "birthday dinner", "guestCount": 18}
	}`
	rec := do(createTestRouter(t, nil), http.MethodPost, "/v1/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out rc.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, correspondence.TemplateGroupReservation, out.TemplateID)
	assert.Equal(t, "Your birthday dinner with us", out.Subject)
	assert.NotEmpty(t, out.Body)
	assert.NotEmpty(t, out.RenderID)
}

func TestPreview_NonPositiveTotalStillRenders(t *testing.T) {
	body := `{
		"templateBody": "Total: {{grandTotal}}",
		"options": [{"totalAmount": 1200, "courses": [{"courseType": "main"}]}, {"totalAmount": -50}]
	}`
	rec := do(createTestRouter(t, nil), http.MethodPost, "/v1/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out rc.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Total: €1,150.00", out.Body)
}

func TestPreview_BodyTooLarge(t *testing.T) {
	body := `{"templateBody": "` + strings.Repeat("x", maxPreviewBody) + `"}`
	rec := do(createTestRouter(t, nil), http.MethodPost, "/v1/preview", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, string(errors.ErrCodeInvalidInput), apiErr.Code)
	assert.Contains(t, apiErr.Details, "too large")
}

func TestPreview_Errors(t *testing.T) {
	tests := []struct {
		name         string
		source       templates.Source
		body         string
		expectedCode int
		errorCode    errors.ErrorCode
	}{
		{"malformed json", nil, `{"templateId":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"schema violation", nil, `{"templateId": "Not Valid"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown template", nil, `{"templateId": "no-such-letter"}`, http.StatusNotFound, errors.ErrCodeTemplateNotFound},
		{"store outage", brokenSource{}, `{"templateId": "group-reservation"}`, http.StatusServiceUnavailable, errors.ErrCodeTemplateStoreFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(createTestRouter(t, tt.source), http.MethodPost, "/v1/preview", tt.body)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, string(tt.errorCode), decodeError(t, rec).Code)
		})
	}
}

// ==========================
// Templates
// ==========================

func TestGetTemplate(t *testing.T) {
	router := createTestRouter(t, nil)

	rec := do(router, http.MethodGet, "/v1/templates/"+correspondence.TemplateBusinessAperitivo, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tmpl templates.Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tmpl))
	assert.Equal(t, correspondence.TemplateBusinessAperitivo, tmpl.ID)
	assert.NotEmpty(t, tmpl.Body)

	rec = do(router, http.MethodGet, "/v1/templates/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, string(errors.ErrCodeTemplateNotFound), apiErr.Code)
	assert.Equal(t, "missing", apiErr.Meta["templateId"])
}

func TestListTemplates(t *testing.T) {
	rec := do(createTestRouter(t, nil), http.MethodGet, "/v1/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Templates []templates.Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Templates, len(correspondence.NamedTemplates()))

	rec = do(createTestRouter(t, brokenSource{}), http.MethodGet, "/v1/templates", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"templates":[]}`, rec.Body.String())
}

// ==========================
// Middleware
// ==========================

func TestCORSPreflight(t *testing.T) {
	router := createTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/preview", nil)
	req.Header.Set("Origin", "https://office.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://office.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/preview", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
