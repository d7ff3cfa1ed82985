package utils

import (
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the success envelope.
type Response struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       any             `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func Paginated(c *gin.Context, status int, data any, meta PaginationMeta) {
	c.JSON(status, Response{Success: true, Data: data, Pagination: &meta})
}

// ParseIDParam parses a uuid path parameter or returns a ValidationException.
func ParseIDParam(c *gin.Context, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		return uuid.Nil, apperr.Validation(param, "Invalid "+resource+" id")
	}
	return id, nil
}
