package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"delivery/internal/domain/model"
)

// 機械可読なエラーコード
const (
	CodeNotFound        = "ENTITY_NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeAccessDenied    = "ACCESS_DENIED"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeConcurrentWrite = "CONCURRENT_MODIFICATION"

	// 業務ルール違反
	CodeRestaurantInactive = "RESTAURANT_INACTIVE"
	CodeEmptyItems         = "EMPTY_ITEMS"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodeProductMismatch    = "PRODUCT_MISMATCH"
	CodeOrderNotPending    = "ORDER_NOT_PENDING"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeEmptyOrder         = "EMPTY_ORDER"
	CodeAlreadyDelivered   = "ORDER_ALREADY_DELIVERED"
	CodeAlreadyCancelled   = "ORDER_ALREADY_CANCELLED"
	CodeInvalidQuantity    = "INVALID_QUANTITY"
	CodeProductInUse       = "PRODUCT_IN_USE"
	CodeInvalidDeliveryFee = "INVALID_DELIVERY_FEE"
	CodeInvalidPrice       = "INVALID_PRICE"
	CodeOrderItemNotFound  = "ORDER_ITEM_NOT_FOUND"
	CodeInvalidPostalCode  = "INVALID_POSTAL_CODE"
)

// HTTPError は usecase から handler へ渡すエラー。
// Err は原因（ログ用）で、レスポンスには出さない。
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    codeForStatus(status),
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// "Order with ID 10 not found"
func NotFound(entity string, id interface{}) error {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", entity, id),
	}
}

// NotFoundBy は ID 以外のキー（メール、注文番号など）で見つからないとき。
func NotFoundBy(entity, field string, value interface{}) error {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with %s %v not found", entity, field, value),
	}
}

func Conflict(entity, field, value string) error {
	return &HTTPError{
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: fmt.Sprintf("%s with %s '%s' already exists", entity, field, value),
		Details: map[string]string{"field": field, "value": value},
	}
}

func BusinessRule(code, message string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
	}
}

func Validation(fields map[string]string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "invalid input",
		Details: fields,
	}
}

func Forbidden(message string) error {
	if strings.TrimSpace(message) == "" {
		message = "access denied"
	}
	return &HTTPError{
		Status:  http.StatusForbidden,
		Code:    CodeAccessDenied,
		Message: message,
	}
}

func Unauthorized() error {
	return &HTTPError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: "unauthorized",
	}
}

// 想定外のエラー。原因は Err に残す。
func Internal(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "db error",
		Err:     err,
	}
}

func concurrentModification(entity string, id int64) error {
	return &HTTPError{
		Status:  http.StatusConflict,
		Code:    CodeConcurrentWrite,
		Message: fmt.Sprintf("%s with ID %d was modified concurrently, retry the request", entity, id),
	}
}

// ドメインの番兵エラーを業務ルール違反に変換する
func fromDomainError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidTransition):
		return BusinessRule(CodeInvalidTransition, err.Error())
	case errors.Is(err, model.ErrOrderNotPending):
		return BusinessRule(CodeOrderNotPending, "only PENDING orders can be changed")
	case errors.Is(err, model.ErrEmptyOrder):
		return BusinessRule(CodeEmptyOrder, "order must have at least one item")
	case errors.Is(err, model.ErrAlreadyDelivered):
		return BusinessRule(CodeAlreadyDelivered, "order already delivered")
	case errors.Is(err, model.ErrAlreadyCancelled):
		return BusinessRule(CodeAlreadyCancelled, "order already cancelled")
	case errors.Is(err, model.ErrInvalidQuantity):
		return BusinessRule(CodeInvalidQuantity, err.Error())
	case errors.Is(err, model.ErrItemNotFound):
		return &HTTPError{Status: http.StatusNotFound, Code: CodeOrderItemNotFound, Message: err.Error()}
	}
	return Internal(err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusForbidden:
		return CodeAccessDenied
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusBadRequest:
		return CodeBadRequest
	}
	if status >= 500 {
		return CodeInternal
	}
	return http.StatusText(status)
}
