package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// respondError translates service errors into the uniform failure envelope.
// Anything that is not a svcerr.Error becomes a 500 with a generic message
// so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var svcErr *svcerr.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Status, envelope{Success: false, Message: svcErr.Message})
		return
	}
	c.JSON(500, envelope{Success: false, Message: "internal server error"})
}
