package mcp

import (
	"context"
	"strings"
)

// Resource URI scheme prefixes.
const (
	catalogsScheme = "catalogs://"
	ordersScheme   = "orders://"

	catalogsListURI = "catalogs://list"
)

func resourceList() []resourceDescriptor {
	return []resourceDescriptor{
		{
			URI:         catalogsListURI,
			Name:        "Product catalogs",
			Description: "Overview of all product categories available through the Gelato API",
			MimeType:    "application/json",
		},
	}
}

func resourceTemplates() []resourceTemplate {
	return []resourceTemplate{
		{
			URITemplate: "catalogs://{catalog_uid}",
			Name:        "Catalog details",
			Description: "A catalog's full attribute schema: every product attribute and its possible values",
			MimeType:    "application/json",
		},
		{
			URITemplate: "orders://{order_id}",
			Name:        "Order details",
			Description: "A complete order record: items, shipping, billing, and fulfillment state",
			MimeType:    "application/json",
		},
	}
}

// readResource routes a resource URI to its document. The second
// return value is false for an unroutable URI; provider failures
// render as error documents instead.
func (s *Server) readResource(ctx context.Context, uri string) (string, bool) {
	switch {
	case uri == catalogsListURI:
		return s.svc.CatalogsDocument(ctx), true
	case strings.HasPrefix(uri, catalogsScheme):
		catalogUID := strings.TrimPrefix(uri, catalogsScheme)
		if catalogUID == "" {
			return "", false
		}

		return s.svc.CatalogDocument(ctx, catalogUID), true
	case strings.HasPrefix(uri, ordersScheme):
		orderID := strings.TrimPrefix(uri, ordersScheme)
		if orderID == "" {
			return "", false
		}

		return s.svc.OrderDocument(ctx, orderID), true
	default:
		return "", false
	}
}
