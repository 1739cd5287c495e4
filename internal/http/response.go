package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"tutorhub/internal/domain"
)

// Payload is the envelope for failures and simple acknowledgements.
type Payload struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Data    any      `json:"data,omitempty"`
}

func (h *Handler) fail(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, Payload{Message: ve.Message, Fields: ve.Fields})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, Payload{Message: "Email already exists"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, Payload{Message: "Invalid input"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Payload{Message: "Invalid credentials"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, Payload{Message: "Authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, Payload{Message: "You do not have permission to modify this resource"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, Payload{Message: "Not found"})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, Payload{Message: "Internal server error"})
	}
}

// badRequest reports a body that could not be bound.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		c.JSON(http.StatusBadRequest, Payload{Message: "Invalid or missing fields", Fields: fields})
		return
	}
	c.JSON(http.StatusBadRequest, Payload{Message: "Invalid request body"})
}
