package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler renders the last error attached by a handler or middleware
// as {success:false, message, errors?}. Only 5xx are logged.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	errLogger := log.WithComponent("error-handler")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, body := Translate(err)

		if status >= http.StatusInternalServerError {
			errLogger.With("request_id", requestid.Get(c)).
				Error(c.Request.Method + " " + c.Request.URL.Path + " failed: " + err.Error())
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// Recovery turns panics into the 500 envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	panicLogger := log.WithComponent("recovery")

	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		panicLogger.With("request_id", requestid.Get(c)).
			Error(fmt.Sprintf("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{
			Success: false,
			Message: internalErrorMessage,
		})
	})
}

// Translate maps typed, storage and binding errors onto a status and envelope.
func Translate(err error) (int, utils.ErrorResponse) {
	if ae := apperr.As(err); ae != nil {
		message := ae.Message
		if ae.Status >= http.StatusInternalServerError {
			message = internalErrorMessage
		}
		return ae.Status, utils.ErrorResponse{Success: false, Message: message, Errors: ae.Details}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return http.StatusConflict, failure("Duplicate value violates a unique constraint")
		case pgerrcode.ForeignKeyViolation:
			return http.StatusConflict, failure("Operation conflicts with related records")
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation:
			return http.StatusBadRequest, failure("Invalid data supplied")
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, failure("Resource not found")
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]apperr.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, apperr.FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: fmt.Sprintf("%s failed on the '%s' rule", lowerFirst(fe.Field()), fe.Tag()),
			})
		}
		return http.StatusBadRequest, utils.ErrorResponse{Success: false, Message: details[0].Message, Errors: details}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var numErr *strconv.NumError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &numErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, failure("Invalid request body")
	}

	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return http.StatusBadRequest, failure("Expected a multipart/form-data request")
	}

	return http.StatusInternalServerError, failure(internalErrorMessage)
}

func failure(message string) utils.ErrorResponse {
	return utils.ErrorResponse{Success: false, Message: message}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
