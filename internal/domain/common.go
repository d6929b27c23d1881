package domain

import "encoding/json"

// Address is the base address shape shared by shipping, return, and
// billing variants. Country is free-form at this layer; ISO validation
// is left to the provider.
type Address struct {
	AddressLine1 string `json:"addressLine1"           validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"                   validate:"required"`
	State        string `json:"state,omitempty"`
	PostCode     string `json:"postCode"               validate:"required"`
	Country      string `json:"country"                validate:"required"`
	Email        string `json:"email"                  validate:"required"`
	Phone        string `json:"phone,omitempty"`
}

// ShippingAddress is a recipient address with the recipient's name.
type ShippingAddress struct {
	Address

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ReturnAddress is the sender address printed on the package.
type ReturnAddress struct {
	Address

	CompanyName string `json:"companyName,omitempty"`
}

// BillingEntity identifies who is invoiced for an order.
type BillingEntity struct {
	Address

	ID           string `json:"id,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
	CompanyVat   string `json:"companyVat,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
}

// File references a print-ready asset.
type File struct {
	Type string `json:"type"`
	URL  string `json:"url"  validate:"required"`
}

// fileAlias avoids UnmarshalJSON recursion.
type fileAlias File

// UnmarshalJSON decodes a file reference, defaulting type to "default"
// when the provider omits it.
func (f *File) UnmarshalJSON(data []byte) error {
	var alias fileAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	if alias.Type == "" {
		alias.Type = "default"
	}

	*f = File(alias)

	return nil
}

// Preview is a rendered preview image attached to an order item.
type Preview struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Package is one physical parcel within a shipment.
type Package struct {
	ID           string   `json:"id,omitempty"`
	OrderItemIDs []string `json:"orderItemIds,omitempty"`
	TrackingCode string   `json:"trackingCode,omitempty"`
	TrackingURL  string   `json:"trackingUrl,omitempty"`
}

// Shipment is the provider's shipment record for an order. Treated as
// structured pass-through; only the commonly present fields are typed.
type Shipment struct {
	ID                    string    `json:"id,omitempty"`
	ShipmentMethodName    string    `json:"shipmentMethodName,omitempty"`
	ShipmentMethodUID     string    `json:"shipmentMethodUid,omitempty"`
	PackageCount          int       `json:"packageCount,omitempty"`
	FulfillmentCountry    string    `json:"fulfillmentCountry,omitempty"`
	FulfillmentFacilityID string    `json:"fulfillmentFacilityId,omitempty"`
	Packages              []Package `json:"packages,omitempty"`
}

// ReceiptItem is one line on an order receipt.
type ReceiptItem struct {
	ID           string `json:"id,omitempty"`
	ReceiptID    string `json:"receiptId,omitempty"`
	ReferenceID  string `json:"referenceId,omitempty"`
	Type         string `json:"type,omitempty"`
	Title        string `json:"title,omitempty"`
	Currency     string `json:"currency,omitempty"`
	PriceBase    string `json:"priceBase,omitempty"`
	PriceInclVat string `json:"priceInclVat,omitempty"`
}

// Receipt is a financial document attached to an order. Treated as
// structured pass-through.
type Receipt struct {
	ID              string        `json:"id,omitempty"`
	OrderID         string        `json:"orderId,omitempty"`
	TransactionType string        `json:"transactionType,omitempty"`
	Currency        string        `json:"currency,omitempty"`
	Items           []ReceiptItem `json:"items,omitempty"`
	TotalInclVat    string        `json:"totalInclVat,omitempty"`
}
