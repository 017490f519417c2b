package services

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"tax-document-service/internal/models"
)

const maxDescriptionLength = 256

// LineItemBuilder assembles the taxable-line array for a sale document:
// one line per line item, then one freight line per taxed shipment.
type LineItemBuilder struct {
	stockLocations StockLocationResolver
	logger         *logrus.Entry
}

// NewLineItemBuilder creates a new line item builder
func NewLineItemBuilder(logger *logrus.Logger) *LineItemBuilder {
	return &LineItemBuilder{
		logger: logger.WithField("component", "line_builder"),
	}
}

// BuildSale returns the taxable lines for a non-refund order
func (b *LineItemBuilder) BuildSale(order *models.OrderSnapshot) []models.TaxLine {
	var lines []models.TaxLine

	for i := range order.LineItems {
		lines = append(lines, b.itemLine(order, &order.LineItems[i]))
	}

	for i := range order.Shipments {
		shipment := &order.Shipments[i]
		// Shipments without a tax category are not taxed
		if shipment.TaxCategory == nil {
			continue
		}
		lines = append(lines, freightLine(order, shipment))
	}

	b.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"lines":    len(lines),
	}).Debug("Built sale lines")

	return lines
}

func (b *LineItemBuilder) itemLine(order *models.OrderSnapshot, li *models.LineItem) models.TaxLine {
	discounted := li.Discountable
	return models.TaxLine{
		LineNo:            fmt.Sprintf("%s-%s", li.ID, models.LineSuffixItem),
		Description:       truncateDescription(li.Name),
		TaxCode:           itemTaxCode(li.TaxCategory),
		ItemCode:          li.VariantSKU,
		Qty:               li.Quantity,
		Amount:            roundCents(li.Amount),
		OriginCode:        b.stockLocations.Resolve(li),
		DestinationCode:   models.AddressCodeDestination,
		CustomerUsageType: customerUsageType(order),
		Discounted:        &discounted,
	}
}

// freightLine uses the shipment's warehouse code directly as the origin,
// with no fallback chain. This is intentionally asymmetric with item-line
// origin resolution.
func freightLine(order *models.OrderSnapshot, shipment *models.OrderShipment) models.TaxLine {
	var methodName string
	var methodCategory *models.TaxCategory
	if shipment.ShippingMethod != nil {
		methodName = shipment.ShippingMethod.Name
		methodCategory = shipment.ShippingMethod.TaxCategory
	}

	return models.TaxLine{
		LineNo:            fmt.Sprintf("%s-%s", shipment.ID, models.LineSuffixFreight),
		Description:       "Shipping Charge",
		TaxCode:           freightTaxCode(methodCategory),
		ItemCode:          methodName,
		Qty:               1,
		Amount:            roundCents(shipment.DiscountedAmount),
		OriginCode:        shipment.WarehouseCode,
		DestinationCode:   models.AddressCodeDestination,
		CustomerUsageType: customerUsageType(order),
	}
}

// customerUsageType returns the customer's tax-entity-use code, or an empty
// string for guest orders
func customerUsageType(order *models.OrderSnapshot) string {
	if order.User == nil {
		return ""
	}
	return order.User.EntityUseCode
}

func itemTaxCode(category *models.TaxCategory) string {
	if category == nil || category.TaxCode == "" {
		return models.DefaultItemTaxCode
	}
	return category.TaxCode
}

func freightTaxCode(category *models.TaxCategory) string {
	if category == nil || category.TaxCode == "" {
		return models.DefaultFreightTaxCode
	}
	return category.TaxCode
}

// refundTaxCode reads the category description, not the code; refund lines
// carry the category's descriptive classification downstream
func refundTaxCode(category *models.TaxCategory) string {
	if category == nil || category.Description == "" {
		return models.DefaultRefundTaxCode
	}
	return category.Description
}

func truncateDescription(name string) string {
	runes := []rune(name)
	if len(runes) <= maxDescriptionLength {
		return name
	}
	return string(runes[:maxDescriptionLength])
}

// roundCents rounds a currency amount to two decimal places. Tax amounts are
// currency-sensitive, so rounding happens once, at document emission.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
