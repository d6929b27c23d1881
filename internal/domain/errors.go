// Package domain contains the Gelato entity types and error taxonomy.
// Domain errors represent provider-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and are mapped to caller-facing
// envelopes by the application layer.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrAuthentication indicates the provider rejected the API key.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound indicates the requested entity does not exist upstream.
	ErrNotFound = errors.New("not found")

	// ErrAPI indicates a non-2xx provider response or a transport failure.
	ErrAPI = errors.New("api error")

	// ErrValidation indicates malformed input or a provider response that
	// does not match the expected schema.
	ErrValidation = errors.New("validation failed")
)

// Entity names used by NotFoundError. The entity determines which
// identifier field is echoed back in the failure envelope.
const (
	EntityOrder   = "order"
	EntityProduct = "product"
	EntityCatalog = "catalog"
)

// AuthenticationError indicates an invalid or missing credential.
// It is produced only by the startup connectivity probe; outside the
// probe a 401/403 surfaces as an APIError so callers can branch on the
// status code.
type AuthenticationError struct {
	Message string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return "authentication failed: " + e.Message
	}

	return "authentication failed"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// NewAuthenticationError creates an authentication error with context.
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NotFoundError indicates a 404 from a resource-specific lookup.
// The entity kind is determined by the operation that was called, not
// by the shape of the provider's response body.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewOrderNotFoundError creates a not found error for an order lookup.
func NewOrderNotFoundError(orderID string) error {
	return &NotFoundError{Entity: EntityOrder, ID: orderID}
}

// NewProductNotFoundError creates a not found error for a product lookup.
func NewProductNotFoundError(productUID string) error {
	return &NotFoundError{Entity: EntityProduct, ID: productUID}
}

// NewCatalogNotFoundError creates a not found error for a catalog lookup.
func NewCatalogNotFoundError(catalogUID string) error {
	return &NotFoundError{Entity: EntityCatalog, ID: catalogUID}
}

// APIError carries the HTTP status and raw provider body for any non-2xx
// response that is not classified more specifically, and for transport
// failures (timeout, DNS, connection refused) where StatusCode is zero.
type APIError struct {
	Message string

	// StatusCode is the HTTP status, or 0 for pure transport failures.
	StatusCode int

	// ResponseData is the parsed provider body, empty if unavailable.
	ResponseData map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gelato api error (status %d): %s", e.StatusCode, e.Message)
	}

	return "gelato api error: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *APIError) Unwrap() error {
	return ErrAPI
}

// NewAPIError creates an API error with the provider status and body.
func NewAPIError(message string, statusCode int, responseData map[string]any) error {
	return &APIError{Message: message, StatusCode: statusCode, ResponseData: responseData}
}

// NewTransportError creates an API error for a network-level failure.
func NewTransportError(message string) error {
	return &APIError{Message: message}
}

// ValidationError provides context for validation errors, both for
// malformed caller input and for provider responses that fail schema
// validation. Schema drift must be visible, never silently swallowed.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsAuthentication checks if an error is an authentication error.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAPIError checks if an error is a provider API or transport error.
func IsAPIError(err error) bool {
	return errors.Is(err, ErrAPI)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
