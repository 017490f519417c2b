package models

import "github.com/google/uuid"

// The types below are read-only snapshots of order-management data posted by
// the orders service per document build. This service never persists or
// mutates them; it only maps them into address and line arrays.

// OrderSnapshot carries everything needed to build a transaction document
type OrderSnapshot struct {
	ID          uuid.UUID       `json:"id" binding:"required"`
	OrderNumber string          `json:"orderNumber"`
	ShipAddress *OrderAddress   `json:"shipAddress"`
	User        *OrderUser      `json:"user"`
	LineItems   []LineItem      `json:"lineItems"`
	Shipments   []OrderShipment `json:"shipments"`
}

// OrderAddress is the order's shipping address as the OMS records it.
// StateAbbr and CountryISO are pre-resolved by the OMS so this service
// does not need a state/country table.
type OrderAddress struct {
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	StateName   string `json:"stateName"`
	StateAbbr   string `json:"stateAbbr"`
	PostalCode  string `json:"postalCode"`
	CountryName string `json:"countryName"`
	CountryISO  string `json:"countryIso"`
}

// OrderUser identifies the customer account on the order
type OrderUser struct {
	ID            uuid.UUID `json:"id"`
	EntityUseCode string    `json:"entityUseCode"` // tax-exemption/usage classification
}

// TaxCategory is the OMS tax category assigned to items and shipping methods.
// TaxCode feeds sale lines, Description feeds refund lines.
type TaxCategory struct {
	TaxCode     string `json:"taxCode"`
	Description string `json:"description"`
}

// LineItem is one purchasable line of the order
type LineItem struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	VariantSKU     string          `json:"variantSku"`
	TaxCategory    *TaxCategory    `json:"taxCategory"`
	Quantity       int             `json:"quantity"`
	Amount         float64         `json:"amount"`
	Discountable   bool            `json:"discountable"`
	InventoryUnits []InventoryUnit `json:"inventoryUnits"`
}

// InventoryUnit is a single physical unit of a line item. Shipment is nil
// until the unit is assigned to one.
type InventoryUnit struct {
	ID         uuid.UUID    `json:"id"`
	LineItemID uuid.UUID    `json:"lineItemId"`
	Shipment   *ShipmentRef `json:"shipment"`
}

// ShipmentRef links an inventory unit to its shipment's warehouse
type ShipmentRef struct {
	ID            uuid.UUID `json:"id"`
	WarehouseCode string    `json:"warehouseCode"`
}

// ShippingMethod is the carrier/service the shipment uses
type ShippingMethod struct {
	Name        string       `json:"name"`
	TaxCategory *TaxCategory `json:"taxCategory"`
}

// OrderShipment is one shipment of the order. A nil TaxCategory means the
// shipping charge is not taxed and no freight line is emitted.
type OrderShipment struct {
	ID               uuid.UUID       `json:"id"`
	ShippingMethod   *ShippingMethod `json:"shippingMethod"`
	TaxCategory      *TaxCategory    `json:"taxCategory"`
	DiscountedAmount float64         `json:"discountedAmount"`
	WarehouseCode    string          `json:"warehouseCode"`
}

// Refund is a standalone refund or the refund behind a return document
type Refund struct {
	ID             uuid.UUID       `json:"id"`
	Amount         float64         `json:"amount"`
	TransactionID  string          `json:"transactionId"`
	Reimbursement  *Reimbursement  `json:"reimbursement"`
	GuaranteeClaim *GuaranteeClaim `json:"guaranteeClaim"`
}

// GuaranteeClaim is a refund issued through the product-guarantee program
// rather than a standard return
type GuaranteeClaim struct {
	ID           uuid.UUID `json:"id"`
	PreTaxAmount float64   `json:"preTaxAmount"`
	LineItemID   uuid.UUID `json:"lineItemId"`
}

// Reimbursement aggregates the return items that triggered a refund
type Reimbursement struct {
	ID          uuid.UUID    `json:"id"`
	ReturnItems []ReturnItem `json:"returnItems"`
}

// ReturnItem is one returned unit with its recorded pre-tax value
type ReturnItem struct {
	ID            uuid.UUID     `json:"id"`
	PreTaxAmount  float64       `json:"preTaxAmount"`
	InventoryUnit InventoryUnit `json:"inventoryUnit"`
}

// FindLineItem resolves a line item on the order by ID
func (o *OrderSnapshot) FindLineItem(id uuid.UUID) *LineItem {
	for i := range o.LineItems {
		if o.LineItems[i].ID == id {
			return &o.LineItems[i]
		}
	}
	return nil
}
