package httpbridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novinsdk/sentinel-go/internal/config"
	"github.com/novinsdk/sentinel-go/pkg/sentinel"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	sdk, err := sentinel.Initialize(&config.Config{
		Mode:       config.ModeFull,
		RateBurst:  1000,
		RateRefill: 1000,
	})
	require.NoError(t, err)
	t.Cleanup(sdk.Close)
	return NewServer(sdk, "127.0.0.1", 0)
}

func TestHandleHealth_ReturnsOK(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleAssess_EmptyBodyReturnsBadRequest(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assess", strings.NewReader(""))

	s.handleAssess(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssess_ValidRequestReturnsAssessment(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	body := `{"events":[{"type":"motion","confidence":0.5}],"home_mode":"home"}`
	req := httptest.NewRequest(http.MethodPost, "/assess", strings.NewReader(body))

	s.handleAssess(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var assessment map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	assert.NotEmpty(t, assessment["request_id"])
}

func TestHandleAssess_MalformedJSONReturnsError(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assess", strings.NewReader("not json"))

	s.handleAssess(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleNotFound_Returns404(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)

	s.handleNotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
