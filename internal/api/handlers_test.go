package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xtding233/wishsim/internal/preset"
)

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSimulateHappyPath(t *testing.T) {
	body := `{"budget":182,"target":1,"hard_pity":90,"trials":500,"seed":42}`
	rec := postJSON(t, handleSimulate(zap.NewNop()), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp simulateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	// two full pity cycles always land the target
	assert.Equal(t, 1.0, resp.SuccessProbability)
	assert.Equal(t, 500, resp.Trials)
	require.NotNil(t, resp.AvgDrawsToTarget)
	assert.LessOrEqual(t, *resp.AvgDrawsToTarget, 182.0)
	require.NotNil(t, resp.TargetStats)
	assert.Greater(t, resp.TargetStats.Mean, 0.0)
}

func TestSimulateNeverReachedNullsAverages(t *testing.T) {
	// two featured hits cannot fit in a single draw
	body := `{"budget":1,"target":2,"hard_pity":90,"trials":50,"seed":1}`
	rec := postJSON(t, handleSimulate(zap.NewNop()), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp simulateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0.0, resp.SuccessProbability)
	assert.Nil(t, resp.AvgDrawsToTarget)
	assert.Nil(t, resp.TargetStats)
}

func TestSimulateRejectsBadJSON(t *testing.T) {
	rec := postJSON(t, handleSimulate(zap.NewNop()), `{"budget":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateRejectsMissingFields(t *testing.T) {
	rec := postJSON(t, handleSimulate(zap.NewNop()), `{"target":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp["errors"], "budget")
	assert.Contains(t, resp["errors"], "hardpity")
}

func TestSimulateRejectsPityAboveCap(t *testing.T) {
	body := `{"budget":10,"target":1,"hard_pity":90,"current_pity":91}`
	rec := postJSON(t, handleSimulate(zap.NewNop()), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func testLoader(t *testing.T) *preset.Loader {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "presets"), 0o755))
	cfg := `
banner:
  hard_pity: 90
token:
  name: "Primogem"
  per_draw: 10
store:
  currency: "USD"
  packs:
    - { id: "big", name: "Big Pack", tokens: 100, price_cents: 100 }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "presets", "default.yaml"), []byte(cfg), 0o644))
	return preset.NewLoader(dir)
}

func TestPlanHappyPath(t *testing.T) {
	rec := postJSON(t, handlePlan(testLoader(t)), `{"draws":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 100, resp.TokenCost)
	assert.Equal(t, 100, resp.SubCents)
	require.Len(t, resp.Purchases, 1)
	assert.Equal(t, "big", resp.Purchases[0].PackID)
}

func TestPlanRejectsZeroDraws(t *testing.T) {
	rec := postJSON(t, handlePlan(testLoader(t)), `{"draws":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanWithoutStoreFails(t *testing.T) {
	loader := preset.NewLoader(t.TempDir()) // fallback preset has no store
	rec := postJSON(t, handlePlan(loader), `{"draws":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPresetRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/presets/{name}", handleGetPreset(testLoader(t)))
	srv := httptest.NewServer(r)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/presets/default")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp presetResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.Equal(t, 90, resp.HardPity)
	assert.Equal(t, "Primogem", resp.TokenName)

	missing, err := http.Get(srv.URL + "/presets/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handleHealthz()(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServerRoutes(t *testing.T) {
	srv := NewServer(":0", zap.NewNop(), testLoader(t))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := bytes.NewBufferString(`{"budget":10,"target":1,"hard_pity":90,"trials":10,"seed":1}`)
	res, err = http.Post(ts.URL+"/api/v1/simulate", "application/json", body)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
