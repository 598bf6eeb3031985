package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// envelope is the common response contract for enveloped endpoints.
type envelope struct {
	Data       interface{}      `json:"data,omitempty"`
	Error      *appErrors.Error `json:"error,omitempty"`
	Pagination interface{}      `json:"pagination,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, pagination interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope{Data: data, Pagination: pagination})
}

func respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope{Error: appErr})
}
