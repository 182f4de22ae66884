package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"merchandising-service/internal/models"
	"merchandising-service/internal/services"
)

// httpStatusFor maps engine error codes onto HTTP statuses. Validation-family
// codes are 400, missing references 404, conflicts 409.
func httpStatusFor(code services.Code) int {
	switch code {
	case services.CodeUnauthorized:
		return http.StatusUnauthorized
	case services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeProductNotFound,
		services.CodeProductVariantNotFound,
		services.CodeDiscountNotFound,
		services.CodeUserNotFound:
		return http.StatusNotFound
	case services.CodeVariantAlreadyExists,
		services.CodeNameAlreadyExists,
		services.CodeDiscountCodeAlreadyExists,
		services.CodeDataInconsistency:
		return http.StatusConflict
	case services.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func respondServiceError(c *gin.Context, err *services.Error) {
	c.JSON(httpStatusFor(err.Code), models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    string(err.Code),
			Message: err.Message,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	respondServiceError(c, services.NewError(services.CodeBadRequest, message))
}

func respondInternal(c *gin.Context, err error) {
	respondServiceError(c, services.Internal(err))
}
