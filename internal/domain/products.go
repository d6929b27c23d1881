package domain

// Catalog is a product category (posters, apparel, mugs, ...).
type Catalog struct {
	CatalogUID string `json:"catalogUid" validate:"required"`
	Title      string `json:"title"      validate:"required"`
}

// ProductAttributeValue is one allowed value of a product attribute.
type ProductAttributeValue struct {
	ProductAttributeValueUID string `json:"productAttributeValueUid" validate:"required"`
	Title                    string `json:"title"                    validate:"required"`
}

// ProductAttribute is a named product dimension and its value set.
type ProductAttribute struct {
	ProductAttributeUID string                  `json:"productAttributeUid" validate:"required"`
	Title               string                  `json:"title"               validate:"required"`
	Values              []ProductAttributeValue `json:"values"              validate:"dive"`
}

// CatalogDetail is a catalog with its full attribute schema. It embeds
// Catalog; the base fields flatten into the provider's JSON document.
type CatalogDetail struct {
	Catalog

	ProductAttributes []ProductAttribute `json:"productAttributes" validate:"dive"`
}

// Product is one concrete product variant from a catalog search.
// Weight and dimensions are Flexible: the provider inconsistently
// returns either structured sub-objects or bare scalars, and both
// shapes must be preserved verbatim.
type Product struct {
	ProductUID         string            `json:"productUid"                validate:"required"`
	Attributes         map[string]string `json:"attributes,omitempty"`
	Weight             Flexible          `json:"weight,omitzero"`
	Dimensions         Flexible          `json:"dimensions,omitzero"`
	SupportedCountries []string          `json:"supportedCountries,omitempty"`
	IsStockable        *bool             `json:"isStockable,omitempty"`
	IsPrintable        *bool             `json:"isPrintable,omitempty"`
	ValidPageCounts    []int             `json:"validPageCounts,omitempty"`
}

// ProductDetail is the full product record from a single-product fetch.
type ProductDetail struct {
	Product

	NotSupportedCountries []string `json:"notSupportedCountries,omitempty"`
}

// FilterHits carries per-filter-value match counts returned alongside
// a product search, used to refine attribute filters.
type FilterHits struct {
	AttributeHits map[string]map[string]int `json:"attributeHits"`
}

// SearchProductsRequest is the outbound body for a catalog product
// search. AttributeFilters maps attribute names to accepted value sets.
type SearchProductsRequest struct {
	AttributeFilters map[string][]string `json:"attributeFilters,omitempty"`
	Limit            int                 `json:"limit"                      validate:"gte=1,lte=100"`
	Offset           int                 `json:"offset"                     validate:"gte=0"`
}

// NewSearchProductsRequest returns a request with pagination defaults.
func NewSearchProductsRequest() SearchProductsRequest {
	return SearchProductsRequest{Limit: DefaultSearchLimit, Offset: 0}
}

// Validate checks the pagination invariants.
func (r *SearchProductsRequest) Validate() error {
	return Validate(r)
}

// SearchProductsResponse is the provider's product search result.
type SearchProductsResponse struct {
	Products []Product  `json:"products" validate:"dive"`
	Hits     FilterHits `json:"hits"`
}
