// Package app contains application services that orchestrate use cases.
// This is the application layer - it coordinates the provider client
// through ports and normalizes every outcome into a uniform response
// envelope, so callers never see raw provider responses or raw errors.
package app

import (
	"errors"
	"net/http"

	"github.com/printops/gelato-mcp/internal/domain"
)

// Envelope is the uniform response shape for every tool invocation.
// Exactly one of Data or Error is populated, keyed off Success.
type Envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *ErrorInfo     `json:"error,omitempty"`
}

// ErrorInfo describes a failed invocation. Operation names the logical
// operation that failed. The entity identifier fields echo back the
// caller's input so a failure is attributable without re-reading the
// request.
type ErrorInfo struct {
	Message      string         `json:"message"`
	Operation    string         `json:"operation"`
	OrderID      string         `json:"order_id,omitempty"`
	ProductUID   string         `json:"product_uid,omitempty"`
	CatalogUID   string         `json:"catalog_uid,omitempty"`
	StatusCode   *int           `json:"status_code,omitempty"`
	ResponseData map[string]any `json:"response_data,omitempty"`
}

// Pagination describes one page of search results.
type Pagination struct {
	Count   int  `json:"count"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// NewPagination builds pagination metadata for a returned page.
// HasMore is a heuristic: a full page is assumed to have a next page,
// so a result set whose size is an exact multiple of the limit reports
// one trailing empty page.
func NewPagination(count, offset, limit int) Pagination {
	return Pagination{
		Count:   count,
		Offset:  offset,
		Limit:   limit,
		HasMore: count == limit,
	}
}

// ErrorOption attaches operation context to a failure envelope.
type ErrorOption func(*ErrorInfo)

// WithOrderID echoes the order identifier in the failure.
func WithOrderID(orderID string) ErrorOption {
	return func(info *ErrorInfo) { info.OrderID = orderID }
}

// WithProductUID echoes the product identifier in the failure.
func WithProductUID(productUID string) ErrorOption {
	return func(info *ErrorInfo) { info.ProductUID = productUID }
}

// WithCatalogUID echoes the catalog identifier in the failure.
func WithCatalogUID(catalogUID string) ErrorOption {
	return func(info *ErrorInfo) { info.CatalogUID = catalogUID }
}

// Success builds a success envelope.
func Success(data map[string]any, message string) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// Failure converts an error into a failure envelope. Provider errors
// contribute their HTTP status and parsed response body; a transport
// failure has neither; local validation failures carry only the
// message and operation.
func Failure(operation string, err error, opts ...ErrorOption) Envelope {
	info := &ErrorInfo{
		Message:   err.Error(),
		Operation: operation,
	}

	var (
		notFound *domain.NotFoundError
		apiErr   *domain.APIError
	)

	switch {
	case errors.As(err, &notFound):
		status := http.StatusNotFound
		info.StatusCode = &status
	case errors.As(err, &apiErr):
		if apiErr.StatusCode > 0 {
			status := apiErr.StatusCode
			info.StatusCode = &status
		}

		if len(apiErr.ResponseData) > 0 {
			info.ResponseData = apiErr.ResponseData
		}
	}

	for _, opt := range opts {
		opt(info)
	}

	return Envelope{Success: false, Error: info}
}

// failureMessage builds a failure envelope for a locally detected
// input problem, bypassing error classification.
func failureMessage(operation, message string, opts ...ErrorOption) Envelope {
	info := &ErrorInfo{
		Message:   message,
		Operation: operation,
	}

	for _, opt := range opts {
		opt(info)
	}

	return Envelope{Success: false, Error: info}
}
