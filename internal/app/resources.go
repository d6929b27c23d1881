package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/printops/gelato-mcp/internal/domain"
)

// Resource documents are rendered as indented JSON text so a reader
// loading one into context gets a human-scannable record. A provider
// failure renders an error document instead of failing the read, so a
// missing catalog or order is still explainable in context.

// CatalogsDocument renders the full catalog list.
func (s *Service) CatalogsDocument(ctx context.Context) string {
	catalogs, err := s.api.ListCatalogs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "catalog list failed", slog.Any("error", err))

		return renderDocument(map[string]any{
			"error":       "Failed to fetch product catalogs",
			"message":     err.Error(),
			"status_code": statusCodeOf(err),
		})
	}

	return renderDocument(map[string]any{
		"catalogs":    catalogs,
		"count":       len(catalogs),
		"description": "Available product catalogs",
	})
}

// CatalogDocument renders one catalog's attribute schema.
func (s *Service) CatalogDocument(ctx context.Context, catalogUID string) string {
	catalog, err := s.api.GetCatalog(ctx, catalogUID)
	if err != nil {
		s.logger.ErrorContext(ctx, "catalog fetch failed",
			slog.String("catalog_uid", catalogUID),
			slog.Any("error", err),
		)

		if domain.IsNotFound(err) {
			return renderDocument(map[string]any{
				"error":       "Catalog not found: " + catalogUID,
				"message":     err.Error(),
				"catalog_uid": catalogUID,
			})
		}

		return renderDocument(map[string]any{
			"error":       "Failed to fetch catalog details",
			"message":     err.Error(),
			"catalog_uid": catalogUID,
			"status_code": statusCodeOf(err),
		})
	}

	return renderDocument(catalog)
}

// OrderDocument renders one full order record.
func (s *Service) OrderDocument(ctx context.Context, orderID string) string {
	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.ErrorContext(ctx, "order fetch failed",
			slog.String("order_id", orderID),
			slog.Any("error", err),
		)

		if domain.IsNotFound(err) {
			return renderDocument(map[string]any{
				"error":    "Order not found: " + orderID,
				"message":  err.Error(),
				"order_id": orderID,
			})
		}

		return renderDocument(map[string]any{
			"error":       "Failed to fetch order details",
			"message":     err.Error(),
			"order_id":    orderID,
			"status_code": statusCodeOf(err),
		})
	}

	return renderDocument(order)
}

// statusCodeOf extracts the provider status from an error, nil when
// the failure never reached the provider.
func statusCodeOf(err error) *int {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		status := http.StatusNotFound

		return &status
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		status := apiErr.StatusCode

		return &status
	}

	return nil
}

func renderDocument(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "failed to render document"}`
	}

	return string(raw)
}
