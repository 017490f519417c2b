package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tax-document-service/internal/models"
)

func newTestDocumentService(mockRepo *MockWarehouseRepository) *DocumentService {
	logger := testLogger()
	return NewDocumentService(
		NewAddressListBuilder(testOrigin(), mockRepo, logger),
		NewLineItemBuilder(logger),
		NewRefundLineBuilder(logger),
		logger,
	)
}

func TestBuildDocument_SalesInvoice(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	service := newTestDocumentService(mockRepo)

	order := models.OrderSnapshot{
		ID:          uuid.New(),
		OrderNumber: "R100000001",
		ShipAddress: &models.OrderAddress{
			Address1: "31 N Main St", City: "Hartford", StateName: "Connecticut",
			StateAbbr: "CT", PostalCode: "06106", CountryName: "United States", CountryISO: "US",
		},
		LineItems: []models.LineItem{
			{ID: uuid.New(), Name: "Widget", VariantSKU: "SKU-1", Quantity: 1, Amount: 20.00},
		},
	}

	response, err := service.BuildDocument(context.Background(), testTenantID, models.BuildDocumentRequest{
		InvoiceKind: models.InvoiceKindSales,
		Order:       order,
	})

	assert.NoError(t, err)
	assert.Equal(t, "R100000001", response.DocCode)
	assert.Equal(t, models.InvoiceKindSales, response.InvoiceKind)
	assert.Len(t, response.Addresses, 2)
	assert.Len(t, response.Lines, 1)
	assert.Equal(t, 20.00, response.Lines[0].Amount)
}

func TestBuildDocument_ExplicitDocCode(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	service := newTestDocumentService(mockRepo)

	response, err := service.BuildDocument(context.Background(), testTenantID, models.BuildDocumentRequest{
		InvoiceKind: models.InvoiceKindSalesOrder,
		DocCode:     "R100000001.2",
		Order:       models.OrderSnapshot{ID: uuid.New(), OrderNumber: "R100000001"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "R100000001.2", response.DocCode)
}

func TestBuildDocument_ReturnInvoice(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	service := newTestDocumentService(mockRepo)

	refundID := uuid.New()
	response, err := service.BuildDocument(context.Background(), testTenantID, models.BuildDocumentRequest{
		InvoiceKind: models.InvoiceKindReturn,
		Order:       models.OrderSnapshot{ID: uuid.New(), OrderNumber: "R100000001"},
		Refund:      &models.Refund{ID: refundID, Amount: 12.00},
	})

	assert.NoError(t, err)
	assert.Len(t, response.Lines, 1)
	assert.Equal(t, -12.00, response.Lines[0].Amount)
}

func TestBuildDocument_ReturnWithoutRefund(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	service := newTestDocumentService(mockRepo)

	response, err := service.BuildDocument(context.Background(), testTenantID, models.BuildDocumentRequest{
		InvoiceKind: models.InvoiceKindReturn,
		Order:       models.OrderSnapshot{ID: uuid.New(), OrderNumber: "R100000001"},
	})

	assert.Error(t, err)
	assert.Nil(t, response)
	assert.Contains(t, err.Error(), "requires a refund")
}
