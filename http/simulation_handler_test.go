package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepay-advisor/domain"
	"prepay-advisor/service"
)

func newSimulationHandler() *SimulationHandler {
	return NewSimulationHandler(service.NewSimulationService(zap.NewNop()), zap.NewNop())
}

func postJSON(path string, body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSimulateHandler_OK(t *testing.T) {
	handler := newSimulationHandler()

	body := []byte(`{
		"principal": 1000000,
		"interest_rate": 10,
		"tenure_years": 10,
		"sip_return_rate": 8,
		"extra_emi_per_year": 1,
		"step_up_percentage": 5
	}`)

	w := httptest.NewRecorder()
	handler.Simulate(w, postJSON("/loan/simulate", body))

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result domain.SimulationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Schedule, 120)
	assert.NotEmpty(t, result.Summary.WinningStrategy)
}

func TestSimulateHandler_MethodNotAllowed(t *testing.T) {
	handler := newSimulationHandler()

	req := httptest.NewRequest(http.MethodGet, "/loan/simulate", nil)
	w := httptest.NewRecorder()

	handler.Simulate(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSimulateHandler_UnsupportedMediaType(t *testing.T) {
	handler := newSimulationHandler()

	req := httptest.NewRequest(http.MethodPost, "/loan/simulate", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	handler.Simulate(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestSimulateHandler_BadRequest(t *testing.T) {
	handler := newSimulationHandler()

	w := httptest.NewRecorder()
	handler.Simulate(w, postJSON("/loan/simulate", []byte(`{invalid-json}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulateHandler_InvalidInput(t *testing.T) {
	handler := newSimulationHandler()

	body := []byte(`{"principal": 0, "tenure_years": 10}`)

	w := httptest.NewRecorder()
	handler.Simulate(w, postJSON("/loan/simulate", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
