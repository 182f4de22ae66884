package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"merchandising-service/internal/services"
)

func TestHTTPStatusFor(t *testing.T) {
	cases := []struct {
		code   services.Code
		status int
	}{
		{services.CodeBadRequest, http.StatusBadRequest},
		{services.CodeInvalidPercentage, http.StatusBadRequest},
		{services.CodeInvalidDate, http.StatusBadRequest},
		{services.CodeInvalidStockQuantity, http.StatusBadRequest},
		{services.CodeInvalidDiscountCode, http.StatusBadRequest},
		{services.CodeInvalidAttributeStructure, http.StatusBadRequest},
		{services.CodeAtLeastTwoProductVariant, http.StatusBadRequest},
		{services.CodeUnauthorized, http.StatusUnauthorized},
		{services.CodeForbidden, http.StatusForbidden},
		{services.CodeProductNotFound, http.StatusNotFound},
		{services.CodeProductVariantNotFound, http.StatusNotFound},
		{services.CodeDiscountNotFound, http.StatusNotFound},
		{services.CodeUserNotFound, http.StatusNotFound},
		{services.CodeVariantAlreadyExists, http.StatusConflict},
		{services.CodeNameAlreadyExists, http.StatusConflict},
		{services.CodeDiscountCodeAlreadyExists, http.StatusConflict},
		{services.CodeDataInconsistency, http.StatusConflict},
		{services.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, httpStatusFor(tc.code), "code %s", tc.code)
	}
}
