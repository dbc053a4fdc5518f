package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/provider-directory/pkg/errors"
)

const responseSuccess = "success"

// Response is the envelope every API answer is wrapped in.
type Response struct {
	Response string      `json:"response"`
	Data     interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Response: responseSuccess,
		Data:     data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{Response: message}
}

// Responder writes envelopes. In legacy mode every envelope goes out with
// 200 and only the response field tells success from failure.
type Responder struct {
	Legacy bool
	Logger zerolog.Logger
}

func (r *Responder) status(code int) int {
	if r.Legacy {
		return http.StatusOK
	}
	return code
}

func (r *Responder) Success(c *gin.Context, code int, data interface{}) {
	c.JSON(r.status(code), NewSuccessResponse(data))
}

// Error maps err to its status code. Internal details are logged, never sent.
func (r *Responder) Error(c *gin.Context, err error) {
	appErr := errors.As(err)
	if appErr.Kind == errors.KindInternal {
		r.Logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.JSON(r.status(appErr.HTTPStatus()), NewErrorResponse(appErr.Message))
}
