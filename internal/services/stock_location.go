package services

import "tax-document-service/internal/models"

// StockLocationResolver attributes a taxable line to the warehouse it ships
// from, falling back to the configured origin when the chain breaks.
type StockLocationResolver struct{}

// Resolve returns the origin code for a line item. A line item with no
// inventory units, or whose first unit has no shipment or warehouse yet,
// resolves to the origin code. Units can span warehouses; the first unit
// decides attribution.
func (StockLocationResolver) Resolve(li *models.LineItem) string {
	if li == nil || len(li.InventoryUnits) == 0 {
		return models.AddressCodeOrigin
	}

	unit := li.InventoryUnits[0]
	if unit.Shipment == nil || unit.Shipment.WarehouseCode == "" {
		return models.AddressCodeOrigin
	}

	return unit.Shipment.WarehouseCode
}
