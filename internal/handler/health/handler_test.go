package health

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/provider-directory/internal/model"
	"github.com/jwalitptl/provider-directory/internal/repository"
	"github.com/jwalitptl/provider-directory/internal/repository/memory"
)

type brokenRepository struct {
	repository.ProviderRepository
}

func (brokenRepository) List(ctx context.Context) (map[string]*model.Provider, error) {
	return nil, stderrors.New("connection refused")
}

func newEngine(repo repository.ProviderRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(repo, zerolog.Nop()).RegisterRoutes(&r.RouterGroup)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLiveness(t *testing.T) {
	w := get(newEngine(brokenRepository{}), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	w := get(newEngine(memory.NewProviderRepository()), "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(newEngine(brokenRepository{}), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"DOWN"`)
}
