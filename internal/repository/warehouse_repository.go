package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tax-document-service/internal/models"
)

// WarehouseCacheTTL bounds how stale a mirrored warehouse address can be
// when building documents
const WarehouseCacheTTL = 30 * time.Minute

const cacheKeyPrefix = "tesseract:taxdoc:"

// ErrReservedWarehouseCode is returned when a warehouse code would collide
// with a reserved document address code
var ErrReservedWarehouseCode = errors.New("warehouse code collides with a reserved address code")

// WarehouseRepositoryInterface abstracts warehouse mirror storage for the
// document builders and handlers
type WarehouseRepositoryInterface interface {
	GetByCode(ctx context.Context, tenantID, code string) (*models.Warehouse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context, tenantID string) ([]models.Warehouse, error)
	Create(ctx context.Context, warehouse *models.Warehouse) error
	Update(ctx context.Context, warehouse *models.Warehouse) error
	Upsert(ctx context.Context, warehouse *models.Warehouse) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}

// WarehouseRepository handles warehouse mirror data operations
type WarehouseRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

// Ensure WarehouseRepository implements the interface
var _ WarehouseRepositoryInterface = (*WarehouseRepository)(nil)

// NewWarehouseRepository creates a new warehouse repository
func NewWarehouseRepository(db *gorm.DB, redisClient *redis.Client) *WarehouseRepository {
	repo := &WarehouseRepository{
		db:    db,
		redis: redisClient,
	}

	if redisClient != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 1000,
			L1TTL:      30 * time.Second,
			DefaultTTL: WarehouseCacheTTL,
			KeyPrefix:  cacheKeyPrefix,
		}
		repo.cache = cache.NewCacheLayerFromClient(redisClient, cacheConfig)
	}

	return repo
}

func warehouseCacheKey(tenantID, code string) string {
	return fmt.Sprintf("warehouse:%s:%s", tenantID, code)
}

func (r *WarehouseRepository) invalidateWarehouseCache(ctx context.Context, tenantID, code string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, warehouseCacheKey(tenantID, code))
}

// validateCode rejects codes that collide with reserved document address
// codes; builder semantics depend on the namespaces staying disjoint
func validateCode(code string) error {
	if code == models.AddressCodeOrigin || code == models.AddressCodeDestination {
		return fmt.Errorf("%w: %q", ErrReservedWarehouseCode, code)
	}
	return nil
}

// GetByCode gets a warehouse by its tenant-scoped code
func (r *WarehouseRepository) GetByCode(ctx context.Context, tenantID, code string) (*models.Warehouse, error) {
	cacheKey := warehouseCacheKey(tenantID, code)

	// Try to get from cache first
	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKeyPrefix+cacheKey).Result()
		if err == nil {
			var warehouse models.Warehouse
			if err := json.Unmarshal([]byte(val), &warehouse); err == nil {
				return &warehouse, nil
			}
		}
	}

	// Query from database
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&warehouse).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		data, marshalErr := json.Marshal(warehouse)
		if marshalErr == nil {
			r.redis.Set(ctx, cacheKeyPrefix+cacheKey, data, WarehouseCacheTTL)
		}
	}

	return &warehouse, nil
}

// GetByID gets a warehouse by ID
func (r *WarehouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// List lists all mirrored warehouses for a tenant
func (r *WarehouseRepository) List(ctx context.Context, tenantID string) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("code").
		Find(&warehouses).Error
	return warehouses, err
}

// Create creates a new warehouse mirror record
func (r *WarehouseRepository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	if err := validateCode(warehouse.Code); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Create(warehouse).Error
	if err == nil {
		r.invalidateWarehouseCache(ctx, warehouse.TenantID, warehouse.Code)
	}
	return err
}

// Update updates a warehouse mirror record
func (r *WarehouseRepository) Update(ctx context.Context, warehouse *models.Warehouse) error {
	if err := validateCode(warehouse.Code); err != nil {
		return err
	}
	warehouse.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(warehouse).Error
	if err == nil {
		r.invalidateWarehouseCache(ctx, warehouse.TenantID, warehouse.Code)
	}
	return err
}

// Upsert inserts or refreshes a mirror record keyed by tenant and code;
// used by the inventory event subscriber
func (r *WarehouseRepository) Upsert(ctx context.Context, warehouse *models.Warehouse) error {
	if err := validateCode(warehouse.Code); err != nil {
		return err
	}
	warehouse.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "status", "address1", "address2", "city", "region",
				"postal_code", "country", "updated_at",
			}),
		}).
		Create(warehouse).Error
	if err == nil {
		r.invalidateWarehouseCache(ctx, warehouse.TenantID, warehouse.Code)
	}
	return err
}

// Delete removes a warehouse mirror record
func (r *WarehouseRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	warehouse, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	err = r.db.WithContext(ctx).Delete(&models.Warehouse{}, "id = ?", id).Error
	if err == nil {
		r.invalidateWarehouseCache(ctx, tenantID, warehouse.Code)
	}
	return err
}
