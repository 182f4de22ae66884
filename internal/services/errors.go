package services

import "fmt"

// Code identifies the first rule an operation violated. Handlers map codes to
// HTTP statuses; codes are stable, messages are not.
type Code string

const (
	CodeBadRequest                Code = "BAD_REQUEST"
	CodeUnauthorized              Code = "UNAUTHORIZED"
	CodeForbidden                 Code = "FORBIDDEN"
	CodeProductNotFound           Code = "PRODUCT_NOT_FOUND"
	CodeProductVariantNotFound    Code = "PRODUCT_VARIANT_NOT_FOUND"
	CodeDataInconsistency         Code = "DATA_INCONSISTENCY"
	CodeAtLeastTwoProductVariant  Code = "AT_LEAST_TWO_PRODUCT_VARIANT"
	CodeVariantAlreadyExists      Code = "VARIANT_ALREADY_EXISTS"
	CodeInvalidAttributeStructure Code = "INVALID_VARIANT_ATTRIBUTE_STRUCTURE"
	CodeInvalidStockQuantity      Code = "INVALID_STOCK_QUANTITY"
	CodeNameAlreadyExists         Code = "NAME_ALREADY_EXISTS"
	CodeInvalidPercentage         Code = "INVALID_PERCENTAGE"
	CodeInvalidNumber             Code = "INVALID_NUMBER"
	CodeInvalidDate               Code = "INVALID_DATE"
	CodeDiscountNotFound          Code = "DISCOUNT_NOT_FOUND"
	CodeDiscountCodeAlreadyExists Code = "DISCOUNT_CODE_ALREADY_EXISTS"
	CodeInvalidDiscountCode       Code = "INVALID_DISCOUNT_CODE"
	CodeUserNotFound              Code = "USER_NOT_FOUND"
	CodeInternal                  Code = "INTERNAL_SERVER_ERROR"
)

// Error is the only error type that crosses the engine boundary. The wrapped
// cause is kept for logs and never serialized to callers.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a validation-family error with a caller-facing message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Internal wraps an unexpected fault. The cause stays diagnostic-only.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "unexpected internal error", cause: cause}
}

// AsError narrows an error returned through a unit of work back to *Error,
// wrapping anything else (storage faults, driver errors) as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Internal(err)
}
