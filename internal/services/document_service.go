package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"tax-document-service/internal/events"
	"tax-document-service/internal/models"
)

// DocumentService orchestrates transaction-document construction: the
// address array plus either sale lines or refund lines, depending on the
// invoice kind supplied by the caller.
type DocumentService struct {
	addresses   *AddressListBuilder
	saleLines   *LineItemBuilder
	refundLines *RefundLineBuilder
	logger      *logrus.Entry
}

// NewDocumentService creates a new document service
func NewDocumentService(addresses *AddressListBuilder, saleLines *LineItemBuilder, refundLines *RefundLineBuilder, logger *logrus.Logger) *DocumentService {
	return &DocumentService{
		addresses:   addresses,
		saleLines:   saleLines,
		refundLines: refundLines,
		logger:      logger.WithField("component", "document_service"),
	}
}

// BuildDocument builds the address and line arrays for one order or refund.
// Builders never mutate the snapshot, so concurrent builds are safe.
func (s *DocumentService) BuildDocument(ctx context.Context, tenantID string, req models.BuildDocumentRequest) (*models.BuildDocumentResponse, error) {
	order := &req.Order

	var lines []models.TaxLine
	if req.InvoiceKind.IsReturn() {
		if req.Refund == nil {
			return nil, fmt.Errorf("invoice kind %s requires a refund", req.InvoiceKind)
		}
		lines = s.refundLines.BuildRefund(order, req.Refund)
	} else {
		lines = s.saleLines.BuildSale(order)
	}

	response := &models.BuildDocumentResponse{
		DocCode:     req.DocCode,
		InvoiceKind: req.InvoiceKind,
		Addresses:   s.addresses.Build(ctx, tenantID, order),
		Lines:       lines,
	}
	if response.DocCode == "" {
		response.DocCode = order.OrderNumber
	}

	var total float64
	for _, line := range lines {
		total += line.Amount
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":    tenantID,
		"order_id":     order.ID,
		"invoice_kind": req.InvoiceKind,
		"addresses":    len(response.Addresses),
		"lines":        len(lines),
		"total":        total,
	}).Info("Built transaction document")

	// Publish document-built event for downstream submission tracking
	if pub := events.GetPublisher(); pub != nil {
		pub.PublishDocumentBuilt(context.Background(), tenantID, response.DocCode, order.ID.String(), string(req.InvoiceKind), total, len(lines))
	}

	return response, nil
}
