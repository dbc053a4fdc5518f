package provider

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/provider-directory/internal/handler"
	"github.com/jwalitptl/provider-directory/internal/model"
	providerService "github.com/jwalitptl/provider-directory/internal/service/provider"
	"github.com/jwalitptl/provider-directory/pkg/errors"
	"github.com/jwalitptl/provider-directory/pkg/validator"
)

const (
	paramProviderID = "providerID"
	paramName       = "name"
)

type Handler struct {
	service   providerService.ProviderServicer
	responder *handler.Responder
}

func NewHandler(service providerService.ProviderServicer, responder *handler.Responder) *Handler {
	return &Handler{service: service, responder: responder}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.ViewProvider)
	r.GET("/viewall", h.ViewAllProviders)
	r.POST("/", h.CreateProvider)
	r.PUT("/", h.UpdateProvider)
	r.DELETE("/", h.DeleteProvider)
}

func (h *Handler) ViewProvider(c *gin.Context) {
	provider, err := h.service.View(c.Request.Context(), c.Query(paramProviderID), c.Query(paramName))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, provider)
}

func (h *Handler) ViewAllProviders(c *gin.Context) {
	providers, err := h.service.ViewAll(c.Request.Context())
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, providers)
}

// CreateProvider stores the body as a new record. An optional providerID
// query parameter names the record instead of a generated identifier.
func (h *Handler) CreateProvider(c *gin.Context) {
	var req model.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Error(c, bindError(err))
		return
	}

	provider, err := h.service.Create(c.Request.Context(), &req, c.Query(paramProviderID))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusCreated, provider)
}

func (h *Handler) UpdateProvider(c *gin.Context) {
	providerID, ok := h.requireProviderID(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.responder.Error(c, bindError(err))
		return
	}

	provider, err := h.service.Update(c.Request.Context(), providerID, fields)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, provider)
}

func (h *Handler) DeleteProvider(c *gin.Context) {
	providerID, ok := h.requireProviderID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), providerID); err != nil {
		h.responder.Error(c, err)
		return
	}
	h.responder.Success(c, http.StatusOK, nil)
}

func (h *Handler) requireProviderID(c *gin.Context) (string, bool) {
	providerID := c.Query(paramProviderID)
	if providerID == "" {
		h.responder.Error(c, errors.Validation("providerID is required. Validation Error", nil))
		return "", false
	}
	return providerID, true
}

// bindError turns a body decoding or schema failure into a validation error
// naming what was wrong.
func bindError(err error) error {
	var verrs playground.ValidationErrors
	if stderrors.As(err, &verrs) {
		return errors.Validation(fmt.Sprintf("%s. Validation Error", validator.Describe(verrs)), err)
	}
	return errors.Validation("Invalid JSON body. Validation Error", err)
}
