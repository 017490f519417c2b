package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"tax-document-service/internal/models"
	"tax-document-service/internal/repository"
)

// WarehouseEvent is published by the inventory service whenever a warehouse
// is created or its details change
type WarehouseEvent struct {
	EventType   string    `json:"event_type"`
	TenantID    string    `json:"tenant_id"`
	WarehouseID string    `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Address1    string    `json:"address1"`
	Address2    string    `json:"address2,omitempty"`
	City        string    `json:"city"`
	Region      string    `json:"region,omitempty"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Subscriber keeps the warehouse mirror in sync with inventory events
type Subscriber struct {
	conn   *nats.Conn
	repo   repository.WarehouseRepositoryInterface
	logger *logrus.Entry
}

// NewSubscriber creates a new event subscriber
func NewSubscriber(repo repository.WarehouseRepositoryInterface, logger *logrus.Logger) (*Subscriber, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		return nil, fmt.Errorf("NATS_URL not set")
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("tax-document-service-subscriber"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Subscriber{
		conn:   conn,
		repo:   repo,
		logger: logger.WithField("component", "events.subscriber"),
	}, nil
}

// Start begins listening for warehouse events
func (s *Subscriber) Start() error {
	for _, subject := range []string{"warehouse.created", "warehouse.updated"} {
		if _, err := s.conn.Subscribe(subject, s.handleWarehouseEvent); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	s.logger.Info("Subscribed to warehouse events for address mirror sync")
	return nil
}

// handleWarehouseEvent upserts the mirrored warehouse address record
func (s *Subscriber) handleWarehouseEvent(msg *nats.Msg) {
	var event WarehouseEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.WithError(err).Error("Failed to unmarshal warehouse event")
		return
	}

	if event.TenantID == "" || event.Code == "" {
		s.logger.Warn("Warehouse event missing tenant or code, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	warehouse := &models.Warehouse{
		ID:         uuid.New(),
		TenantID:   event.TenantID,
		Code:       event.Code,
		Name:       event.Name,
		Status:     models.WarehouseStatus(event.Status),
		Address1:   event.Address1,
		City:       event.City,
		Region:     event.Region,
		PostalCode: event.PostalCode,
		Country:    event.Country,
	}
	if event.Address2 != "" {
		warehouse.Address2 = &event.Address2
	}
	if warehouse.Status == "" {
		warehouse.Status = models.WarehouseStatusActive
	}

	if err := s.repo.Upsert(ctx, warehouse); err != nil {
		s.logger.WithFields(logrus.Fields{
			"tenant_id":      event.TenantID,
			"warehouse_code": event.Code,
		}).WithError(err).Error("Failed to sync warehouse mirror")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":      event.TenantID,
		"warehouse_code": event.Code,
	}).Info("Synced warehouse mirror from inventory event")
}

// Close closes the subscriber connection
func (s *Subscriber) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
