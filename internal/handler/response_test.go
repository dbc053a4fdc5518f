package handler

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/provider-directory/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(r *Responder, fn func(c *gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func TestResponderStatusByKind(t *testing.T) {
	r := &Responder{Logger: zerolog.Nop()}

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", errors.NotFound("providerID not found"), http.StatusNotFound, `{"response":"providerID not found"}`},
		{"validation", errors.Validation("Empty fields. Validation Error", nil), http.StatusBadRequest, `{"response":"Empty fields. Validation Error"}`},
		{"conflict", errors.Conflict("ProviderID already exist"), http.StatusConflict, `{"response":"ProviderID already exist"}`},
		{"ambiguous", errors.AmbiguousRequest("no arguments provided"), http.StatusBadRequest, `{"response":"no arguments provided"}`},
		{"internal", stderrors.New("disk on fire"), http.StatusInternalServerError, `{"response":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := respond(r, func(c *gin.Context) { r.Error(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestResponderLegacy(t *testing.T) {
	r := &Responder{Legacy: true, Logger: zerolog.Nop()}

	w := respond(r, func(c *gin.Context) { r.Error(c, errors.NotFound("providerID not found")) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"providerID not found"}`, w.Body.String())

	w = respond(r, func(c *gin.Context) { r.Success(c, http.StatusCreated, map[string]string{"a": "b"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"success","data":{"a":"b"}}`, w.Body.String())
}

func TestSuccessWithoutData(t *testing.T) {
	r := &Responder{Logger: zerolog.Nop()}

	w := respond(r, func(c *gin.Context) { r.Success(c, http.StatusOK, nil) })
	assert.JSONEq(t, `{"response":"success"}`, w.Body.String())
}
