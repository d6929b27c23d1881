package domain

import (
	"encoding/json"
	"time"
)

// apiTimeLayout is the wire format for search date filters: ISO-8601
// with an explicit numeric UTC offset. A trailing "Z" on input parses
// to the same instant, so "2024-01-01T00:00:00Z" and
// "2024-01-01T00:00:00+00:00" produce identical outbound values.
const apiTimeLayout = "2006-01-02T15:04:05-07:00"

// APITime is a timestamp that serializes with an explicit UTC offset,
// matching the shape the provider's search endpoints expect.
type APITime struct {
	time.Time
}

// ParseAPITime parses an ISO-8601 timestamp, accepting both "Z" and
// numeric offsets.
func ParseAPITime(value string) (APITime, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return APITime{}, err
	}

	return APITime{Time: t}, nil
}

// MarshalJSON emits the timestamp with a numeric offset, never "Z".
func (t APITime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(apiTimeLayout))
}

// UnmarshalJSON parses either "Z" or numeric-offset forms.
func (t *APITime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseAPITime(s)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// ItemOption is an add-on attached to an order item (e.g. an envelope).
type ItemOption struct {
	ID         string `json:"id"         validate:"required"`
	Type       string `json:"type"       validate:"required"`
	ProductUID string `json:"productUid" validate:"required"`
	Quantity   int    `json:"quantity"   validate:"required"`
}

// OrderItem is a single line item on an order.
type OrderItem struct {
	ID                string       `json:"id"                         validate:"required"`
	ItemReferenceID   string       `json:"itemReferenceId"            validate:"required"`
	ProductUID        string       `json:"productUid"                 validate:"required"`
	Files             []File       `json:"files"                      validate:"dive"`
	ProcessedFileURL  string       `json:"processedFileUrl,omitempty"`
	Quantity          int          `json:"quantity"                   validate:"required"`
	FulfillmentStatus string       `json:"fulfillmentStatus"          validate:"required"`
	Previews          []Preview    `json:"previews,omitempty"`
	Options           []ItemOption `json:"options,omitempty"          validate:"omitempty,dive"`
	PageCount         *int         `json:"pageCount,omitempty"`
}

// OrderSummary is the identity and status record returned by order
// search. The createdAt <= updatedAt ordering is provider-trusted and
// not enforced here.
type OrderSummary struct {
	ID                  string     `json:"id"                            validate:"required"`
	OrderType           string     `json:"orderType"                     validate:"required,oneof=order draft"`
	OrderReferenceID    string     `json:"orderReferenceId"              validate:"required"`
	CustomerReferenceID string     `json:"customerReferenceId"           validate:"required"`
	FulfillmentStatus   string     `json:"fulfillmentStatus"             validate:"required"`
	FinancialStatus     string     `json:"financialStatus"               validate:"required"`
	Currency            string     `json:"currency,omitempty"`
	Channel             string     `json:"channel,omitempty"`
	Country             string     `json:"country,omitempty"`
	FirstName           string     `json:"firstName,omitempty"`
	LastName            string     `json:"lastName,omitempty"`
	ItemsCount          *int       `json:"itemsCount,omitempty"`
	TotalInclVat        string     `json:"totalInclVat,omitempty"`
	StoreID             string     `json:"storeId,omitempty"`
	ConnectedOrderIDs   []string   `json:"connectedOrderIds,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"                     validate:"required"`
	UpdatedAt           time.Time  `json:"updatedAt"                     validate:"required"`
	OrderedAt           *time.Time `json:"orderedAt,omitempty"`
}

// OrderDetail is the full order record. It embeds OrderSummary rather
// than inheriting from it; the summary fields flatten into the same
// JSON document the provider returns.
type OrderDetail struct {
	OrderSummary

	Items           []OrderItem      `json:"items"                     validate:"dive"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	BillingEntity   *BillingEntity   `json:"billingEntity,omitempty"`
	ReturnAddress   *ReturnAddress   `json:"returnAddress,omitempty"`
	Shipment        *Shipment        `json:"shipment,omitempty"`
	Receipts        []Receipt        `json:"receipts,omitempty"`
}

// Search pagination bounds.
const (
	// DefaultSearchLimit is applied when the caller does not set one.
	DefaultSearchLimit = 50

	// MaxSearchLimit is the provider's hard page-size ceiling.
	MaxSearchLimit = 100
)

// SearchOrdersParams is the outbound filter set for order search. All
// filter fields are optional; zero values are omitted from the wire
// body so the echoed search_params only names active filters.
type SearchOrdersParams struct {
	Channels            []string `json:"channels,omitempty"`
	Countries           []string `json:"countries,omitempty"`
	Currencies          []string `json:"currencies,omitempty"`
	EndDate             *APITime `json:"endDate,omitempty"`
	FinancialStatuses   []string `json:"financialStatuses,omitempty"`
	FulfillmentStatuses []string `json:"fulfillmentStatuses,omitempty"`
	IDs                 []string `json:"ids,omitempty"`
	Limit               int      `json:"limit"                         validate:"gte=1,lte=100"`
	Offset              int      `json:"offset"                        validate:"gte=0"`
	OrderReferenceID    string   `json:"orderReferenceId,omitempty"`
	OrderReferenceIDs   []string `json:"orderReferenceIds,omitempty"`
	OrderTypes          []string `json:"orderTypes,omitempty"          validate:"omitempty,dive,oneof=order draft"`
	Search              string   `json:"search,omitempty"`
	StartDate           *APITime `json:"startDate,omitempty"`
	StoreIDs            []string `json:"storeIds,omitempty"`
}

// NewSearchOrdersParams returns params with pagination defaults applied.
func NewSearchOrdersParams() SearchOrdersParams {
	return SearchOrdersParams{Limit: DefaultSearchLimit, Offset: 0}
}

// Validate checks the pagination invariants: 0 < limit <= 100, offset >= 0.
func (p *SearchOrdersParams) Validate() error {
	return Validate(p)
}

// SearchOrdersResponse is the provider's order search result. Ordering
// is as returned by the provider; results are not re-sorted locally.
type SearchOrdersResponse struct {
	Orders []OrderSummary `json:"orders" validate:"dive"`
}
