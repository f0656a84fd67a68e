package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingTrigger struct {
	n int
}

func (c *countingTrigger) Trigger() { c.n++ }

func TestTrigger(t *testing.T) {
	trigger := &countingTrigger{}
	s := NewAPIServer(trigger, zap.NewNop())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trigger", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, trigger.n)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trigger", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, trigger.n)
}

func TestHealth(t *testing.T) {
	s := NewAPIServer(&countingTrigger{}, zap.NewNop())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
