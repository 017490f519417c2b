package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"tax-document-service/internal/models"
)

// RefundLineBuilder assembles negative-amount taxable lines for refunds and
// returns, including the proration of reimbursed return items across the
// line items they came from.
type RefundLineBuilder struct {
	stockLocations StockLocationResolver
	logger         *logrus.Entry
}

// NewRefundLineBuilder creates a new refund line builder
func NewRefundLineBuilder(logger *logrus.Logger) *RefundLineBuilder {
	return &RefundLineBuilder{
		logger: logger.WithField("component", "refund_builder"),
	}
}

// BuildRefund returns the credit lines for a refund or return. A refund with
// a reimbursement produces one prorated line per affected line item; a
// standalone refund produces exactly one credit line. An empty result means
// nothing was reimbursable, which is not an error.
func (b *RefundLineBuilder) BuildRefund(order *models.OrderSnapshot, refund *models.Refund) []models.TaxLine {
	var lines []models.TaxLine

	if refund.Reimbursement == nil {
		lines = append(lines, b.standaloneRefundLine(order, refund))
	} else {
		lines = b.reimbursementLines(order, refund.Reimbursement)
	}

	b.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"refund_id": refund.ID,
		"lines":     len(lines),
	}).Debug("Built refund lines")

	return lines
}

// standaloneRefundLine covers refunds issued outside the return flow: a
// guarantee-claim credit against the claim's line item when one is linked,
// otherwise a single generic credit for the refund total.
func (b *RefundLineBuilder) standaloneRefundLine(order *models.OrderSnapshot, refund *models.Refund) models.TaxLine {
	if claim := refund.GuaranteeClaim; claim != nil {
		if li := order.FindLineItem(claim.LineItemID); li != nil {
			return guaranteeClaimLine(order, li, claim)
		}
		b.logger.WithFields(logrus.Fields{
			"refund_id":    refund.ID,
			"line_item_id": claim.LineItemID,
		}).Warn("Guarantee claim references unknown line item, emitting generic credit")
	}

	return genericRefundLine(order, refund)
}

func guaranteeClaimLine(order *models.OrderSnapshot, li *models.LineItem, claim *models.GuaranteeClaim) models.TaxLine {
	return models.TaxLine{
		LineNo:            fmt.Sprintf("%s-%s", li.ID, models.LineSuffixGuarantee),
		Description:       truncateDescription(li.Name),
		TaxCode:           refundTaxCode(li.TaxCategory),
		ItemCode:          li.VariantSKU,
		Qty:               1,
		Amount:            -roundCents(claim.PreTaxAmount),
		OriginCode:        models.AddressCodeOrigin,
		DestinationCode:   models.AddressCodeDestination,
		CustomerUsageType: customerUsageType(order),
	}
}

func genericRefundLine(order *models.OrderSnapshot, refund *models.Refund) models.TaxLine {
	itemCode := refund.TransactionID
	if itemCode == "" {
		itemCode = "Refund"
	}

	return models.TaxLine{
		LineNo:            fmt.Sprintf("%s-%s", refund.ID, models.LineSuffixRefund),
		Description:       "Refund",
		TaxCode:           models.DefaultRefundTaxCode,
		ItemCode:          itemCode,
		Qty:               1,
		Amount:            -roundCents(refund.Amount),
		OriginCode:        models.AddressCodeOrigin,
		DestinationCode:   models.AddressCodeDestination,
		CustomerUsageType: customerUsageType(order),
	}
}

// reimbursementLines prorates the reimbursement's pre-tax total as a flat
// per-line-item average: total / distinct line item count. Every affected
// line item receives the same credit base regardless of its own price, and
// the per-group amount is not multiplied by the group's unit count; the unit
// count is recorded as Qty.
func (b *RefundLineBuilder) reimbursementLines(order *models.OrderSnapshot, reimbursement *models.Reimbursement) []models.TaxLine {
	groups, groupOrder := groupUnitsByLineItem(reimbursement.ReturnItems)
	if len(groupOrder) == 0 {
		return nil
	}

	var total float64
	for _, item := range reimbursement.ReturnItems {
		total += item.PreTaxAmount
	}
	average := total / float64(len(groupOrder))

	var lines []models.TaxLine
	for _, lineItemID := range groupOrder {
		li := order.FindLineItem(lineItemID)
		if li == nil {
			b.logger.WithFields(logrus.Fields{
				"reimbursement_id": reimbursement.ID,
				"line_item_id":     lineItemID,
			}).Warn("Return items reference unknown line item, skipping credit line")
			continue
		}

		lines = append(lines, models.TaxLine{
			LineNo:            fmt.Sprintf("%s-%s", li.ID, models.LineSuffixItem),
			Description:       truncateDescription(li.Name),
			TaxCode:           refundTaxCode(li.TaxCategory),
			ItemCode:          li.VariantSKU,
			Qty:               len(groups[lineItemID]),
			Amount:            -roundCents(average),
			OriginCode:        b.stockLocations.Resolve(li),
			DestinationCode:   models.AddressCodeDestination,
			CustomerUsageType: customerUsageType(order),
		})
	}

	return lines
}

// groupUnitsByLineItem buckets the returned inventory units by line item,
// deduplicating units and preserving first-reference order of line items
func groupUnitsByLineItem(items []models.ReturnItem) (map[uuid.UUID][]uuid.UUID, []uuid.UUID) {
	groups := make(map[uuid.UUID][]uuid.UUID)
	seenUnits := make(map[uuid.UUID]bool)
	var order []uuid.UUID

	for _, item := range items {
		unit := item.InventoryUnit
		if seenUnits[unit.ID] {
			continue
		}
		seenUnits[unit.ID] = true

		if _, ok := groups[unit.LineItemID]; !ok {
			order = append(order, unit.LineItemID)
		}
		groups[unit.LineItemID] = append(groups[unit.LineItemID], unit.ID)
	}

	return groups, order
}
