package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tax-document-service/internal/models"
)

func returnItem(amount float64, lineItemID uuid.UUID, unitID uuid.UUID) models.ReturnItem {
	return models.ReturnItem{
		ID:           uuid.New(),
		PreTaxAmount: amount,
		InventoryUnit: models.InventoryUnit{
			ID:         unitID,
			LineItemID: lineItemID,
		},
	}
}

func TestBuildRefund_Standalone_GenericCredit(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	refundID := uuid.New()
	order := &models.OrderSnapshot{ID: uuid.New(), OrderNumber: "R100000001"}
	refund := &models.Refund{ID: refundID, Amount: 25.50, TransactionID: "txn-991"}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 1)
	assert.Equal(t, fmt.Sprintf("%s-RA", refundID), lines[0].LineNo)
	assert.Equal(t, "Refund", lines[0].Description)
	assert.Equal(t, models.DefaultRefundTaxCode, lines[0].TaxCode)
	assert.Equal(t, "txn-991", lines[0].ItemCode)
	assert.Equal(t, 1, lines[0].Qty)
	assert.Equal(t, -25.50, lines[0].Amount)
	assert.Equal(t, models.AddressCodeOrigin, lines[0].OriginCode)
	assert.Equal(t, models.AddressCodeDestination, lines[0].DestinationCode)
}

func TestBuildRefund_Standalone_MissingTransactionID(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	order := &models.OrderSnapshot{ID: uuid.New()}
	refund := &models.Refund{ID: uuid.New(), Amount: 10.00}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 1)
	assert.Equal(t, "Refund", lines[0].ItemCode)
}

func TestBuildRefund_GuaranteeClaim(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	lineItemID := uuid.New()
	order := &models.OrderSnapshot{
		ID: uuid.New(),
		LineItems: []models.LineItem{
			{
				ID:          lineItemID,
				Name:        "Widget",
				VariantSKU:  "SKU-1",
				TaxCategory: &models.TaxCategory{TaxCode: "PC030000", Description: "Clothing"},
			},
		},
	}
	refund := &models.Refund{
		ID:     uuid.New(),
		Amount: 15.00,
		GuaranteeClaim: &models.GuaranteeClaim{
			ID:           uuid.New(),
			PreTaxAmount: 12.00,
			LineItemID:   lineItemID,
		},
	}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 1)
	assert.Equal(t, fmt.Sprintf("%s-TOG", lineItemID), lines[0].LineNo)
	assert.Equal(t, "Widget", lines[0].Description)
	assert.Equal(t, "Clothing", lines[0].TaxCode)
	assert.Equal(t, -12.00, lines[0].Amount)
}

func TestBuildRefund_GuaranteeClaim_UnknownLineItem(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	refundID := uuid.New()
	order := &models.OrderSnapshot{ID: uuid.New()}
	refund := &models.Refund{
		ID:             refundID,
		Amount:         15.00,
		GuaranteeClaim: &models.GuaranteeClaim{ID: uuid.New(), PreTaxAmount: 12.00, LineItemID: uuid.New()},
	}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 1)
	assert.Equal(t, fmt.Sprintf("%s-RA", refundID), lines[0].LineNo)
	assert.Equal(t, -15.00, lines[0].Amount)
}

// $40 reimbursed across two distinct line items credits each line a flat
// $20 regardless of how many units each group returned.
func TestBuildRefund_Reimbursement_FlatAverage(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	li1 := uuid.New()
	li2 := uuid.New()
	order := &models.OrderSnapshot{
		ID: uuid.New(),
		LineItems: []models.LineItem{
			{ID: li1, Name: "Widget", VariantSKU: "SKU-1"},
			{ID: li2, Name: "Gadget", VariantSKU: "SKU-2"},
		},
	}
	refund := &models.Refund{
		ID: uuid.New(),
		Reimbursement: &models.Reimbursement{
			ID: uuid.New(),
			ReturnItems: []models.ReturnItem{
				returnItem(10.00, li1, uuid.New()),
				returnItem(10.00, li1, uuid.New()),
				returnItem(10.00, li1, uuid.New()),
				returnItem(10.00, li2, uuid.New()),
			},
		},
	}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 2)

	assert.Equal(t, fmt.Sprintf("%s-LI", li1), lines[0].LineNo)
	assert.Equal(t, 3, lines[0].Qty)
	assert.Equal(t, -20.00, lines[0].Amount)

	assert.Equal(t, fmt.Sprintf("%s-LI", li2), lines[1].LineNo)
	assert.Equal(t, 1, lines[1].Qty)
	assert.Equal(t, -20.00, lines[1].Amount)
}

func TestBuildRefund_Reimbursement_DuplicateUnitsCountedOnce(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	li1 := uuid.New()
	unitID := uuid.New()
	order := &models.OrderSnapshot{
		ID:        uuid.New(),
		LineItems: []models.LineItem{{ID: li1, Name: "Widget"}},
	}
	refund := &models.Refund{
		ID: uuid.New(),
		Reimbursement: &models.Reimbursement{
			ID: uuid.New(),
			ReturnItems: []models.ReturnItem{
				returnItem(10.00, li1, unitID),
				returnItem(10.00, li1, unitID),
			},
		},
	}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Qty)
}

func TestBuildRefund_Reimbursement_UnknownLineItemSkipped(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	li1 := uuid.New()
	order := &models.OrderSnapshot{
		ID:        uuid.New(),
		LineItems: []models.LineItem{{ID: li1, Name: "Widget"}},
	}
	refund := &models.Refund{
		ID: uuid.New(),
		Reimbursement: &models.Reimbursement{
			ID: uuid.New(),
			ReturnItems: []models.ReturnItem{
				returnItem(15.00, li1, uuid.New()),
				returnItem(15.00, uuid.New(), uuid.New()),
			},
		},
	}

	lines := builder.BuildRefund(order, refund)

	// Average still divides by both groups; only the known one emits a line
	assert.Len(t, lines, 1)
	assert.Equal(t, -15.00, lines[0].Amount)
}

func TestBuildRefund_Reimbursement_NoReturnItems(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	order := &models.OrderSnapshot{ID: uuid.New()}
	refund := &models.Refund{
		ID:            uuid.New(),
		Reimbursement: &models.Reimbursement{ID: uuid.New()},
	}

	lines := builder.BuildRefund(order, refund)

	assert.Empty(t, lines)
}

func TestBuildRefund_Reimbursement_OriginFromStock(t *testing.T) {
	builder := NewRefundLineBuilder(testLogger())

	li1 := uuid.New()
	order := &models.OrderSnapshot{
		ID: uuid.New(),
		LineItems: []models.LineItem{
			{
				ID:   li1,
				Name: "Widget",
				InventoryUnits: []models.InventoryUnit{
					{ID: uuid.New(), Shipment: &models.ShipmentRef{ID: uuid.New(), WarehouseCode: "WH-EAST"}},
				},
			},
		},
	}
	refund := &models.Refund{
		ID: uuid.New(),
		Reimbursement: &models.Reimbursement{
			ID:          uuid.New(),
			ReturnItems: []models.ReturnItem{returnItem(8.00, li1, uuid.New())},
		},
	}

	lines := builder.BuildRefund(order, refund)

	assert.Len(t, lines, 1)
	assert.Equal(t, "WH-EAST", lines[0].OriginCode)
}
