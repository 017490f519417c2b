package models

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseStatus represents the status of a mirrored warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "ACTIVE"
	WarehouseStatusInactive WarehouseStatus = "INACTIVE"
)

// Warehouse is a tenant-scoped mirror of the inventory service's warehouse
// record, reduced to what address building needs. Code doubles as the
// document address code, so the reserved codes are rejected at write time.
type Warehouse struct {
	ID       uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string          `json:"tenantId" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_tenant_warehouse_code,priority:1"`
	Code     string          `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_warehouse_code,priority:2"`
	Name     string          `json:"name" gorm:"type:varchar(255);not null"`
	Status   WarehouseStatus `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	// Location details
	Address1   string  `json:"address1" gorm:"type:varchar(255);not null"`
	Address2   *string `json:"address2,omitempty" gorm:"type:varchar(255)"`
	City       string  `json:"city" gorm:"type:varchar(100);not null"`
	Region     string  `json:"region" gorm:"type:varchar(100)"`
	PostalCode string  `json:"postalCode" gorm:"type:varchar(20);not null"`
	Country    string  `json:"country" gorm:"type:varchar(2)"` // ISO 3166-1 alpha-2

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
