package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"tax-document-service/internal/config"
	"tax-document-service/internal/models"
	"tax-document-service/internal/repository"
)

// AddressListBuilder assembles the ordered address array of a transaction
// document: origin first, then destination, then one record per distinct
// warehouse referenced by the order's shipments.
type AddressListBuilder struct {
	origin     config.OriginAddress
	warehouses repository.WarehouseRepositoryInterface
	logger     *logrus.Entry
}

// NewAddressListBuilder creates a new address list builder
func NewAddressListBuilder(origin config.OriginAddress, warehouses repository.WarehouseRepositoryInterface, logger *logrus.Logger) *AddressListBuilder {
	return &AddressListBuilder{
		origin:     origin,
		warehouses: warehouses,
		logger:     logger.WithField("component", "address_builder"),
	}
}

// Build returns the address records for an order. Callers may rely on
// origin-first ordering; warehouse records follow in first-reference order.
func (b *AddressListBuilder) Build(ctx context.Context, tenantID string, order *models.OrderSnapshot) []models.AddressRecord {
	addresses := []models.AddressRecord{b.originRecord()}

	if order.ShipAddress != nil {
		addresses = append(addresses, destinationRecord(order.ShipAddress))
	}

	for _, code := range distinctWarehouseCodes(order.Shipments) {
		warehouse, err := b.warehouses.GetByCode(ctx, tenantID, code)
		if err != nil {
			b.logger.WithFields(logrus.Fields{
				"tenant_id":      tenantID,
				"warehouse_code": code,
			}).WithError(err).Warn("Warehouse not found, skipping address record")
			continue
		}
		addresses = append(addresses, warehouseRecord(warehouse))
	}

	b.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"addresses": len(addresses),
	}).Debug("Built address list")

	return addresses
}

func (b *AddressListBuilder) originRecord() models.AddressRecord {
	return models.AddressRecord{
		AddressCode: models.AddressCodeOrigin,
		Line1:       b.origin.Address1,
		Line2:       b.origin.Address2,
		City:        b.origin.City,
		Region:      b.origin.Region,
		PostalCode:  b.origin.Zip5,
		Country:     b.origin.Country,
	}
}

// destinationRecord maps the ship address; a missing country renders as an
// empty field rather than failing.
func destinationRecord(ship *models.OrderAddress) models.AddressRecord {
	return models.AddressRecord{
		AddressCode: models.AddressCodeDestination,
		Line1:       ship.Address1,
		Line2:       ship.Address2,
		City:        ship.City,
		Region:      ship.StateName,
		PostalCode:  ship.PostalCode,
		Country:     ship.CountryISO,
	}
}

func warehouseRecord(w *models.Warehouse) models.AddressRecord {
	record := models.AddressRecord{
		AddressCode: w.Code,
		Line1:       w.Address1,
		City:        w.City,
		PostalCode:  w.PostalCode,
		Country:     w.Country,
	}
	if w.Address2 != nil {
		record.Line2 = *w.Address2
	}
	return record
}

// distinctWarehouseCodes deduplicates shipment warehouse codes, preserving
// first-reference order for deterministic output
func distinctWarehouseCodes(shipments []models.OrderShipment) []string {
	seen := make(map[string]bool, len(shipments))
	var codes []string
	for _, shipment := range shipments {
		if shipment.WarehouseCode == "" || seen[shipment.WarehouseCode] {
			continue
		}
		seen[shipment.WarehouseCode] = true
		codes = append(codes, shipment.WarehouseCode)
	}
	return codes
}
