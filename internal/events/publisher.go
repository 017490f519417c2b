package events

import (
	"context"
	"os"
	"sync"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/sirupsen/logrus"
)

var (
	publisher     *Publisher
	publisherOnce sync.Once
	publisherMu   sync.RWMutex
)

// Publisher wraps the shared events publisher for document-building events
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// InitPublisher initializes the singleton NATS publisher
func InitPublisher(logger *logrus.Logger) error {
	var initErr error
	publisherOnce.Do(func() {
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			logger.Warn("NATS_URL not set, event publishing disabled")
			return
		}

		config := events.DefaultPublisherConfig(natsURL)
		config.Name = "tax-document-service"

		pub, err := events.NewPublisher(config, logger)
		if err != nil {
			initErr = err
			return
		}

		ctx := context.Background()
		if err := pub.EnsureStream(ctx, events.StreamTax, []string{"tax.>"}); err != nil {
			logger.WithError(err).Warn("Failed to ensure TAX_EVENTS stream")
		}

		publisherMu.Lock()
		publisher = &Publisher{
			publisher: pub,
			logger:    logger.WithField("component", "events.publisher"),
		}
		publisherMu.Unlock()

		logger.Info("NATS events publisher initialized for tax-document-service")
	})
	return initErr
}

// GetPublisher returns the singleton publisher instance
func GetPublisher() *Publisher {
	publisherMu.RLock()
	defer publisherMu.RUnlock()
	return publisher
}

// PublishDocumentBuilt publishes an event after a transaction document is
// assembled, so submission tracking can pick it up
func (p *Publisher) PublishDocumentBuilt(ctx context.Context, tenantID, docCode, orderID, invoiceKind string, taxableAmount float64, lineCount int) error {
	event := events.NewTaxEvent(events.TaxCalculated, tenantID)
	event.CalculationID = docCode
	event.OrderID = orderID
	event.TaxableAmount = taxableAmount

	p.logger.WithFields(logrus.Fields{
		"doc_code":     docCode,
		"invoice_kind": invoiceKind,
		"lines":        lineCount,
	}).Debug("Publishing document built event")

	return p.publisher.Publish(ctx, event)
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.publisher != nil && p.publisher.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
}
