package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"merchandising-service/internal/models"
)

// Cache TTL constants
const (
	productCacheTTL     = 5 * time.Minute
	productListCacheTTL = 2 * time.Minute
)

// CatalogRepository persists products with their variants and attributes.
// Reads are cached in Redis when a client is configured; every mutation
// invalidates the affected keys.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, redis: redisClient}
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("merchandising:product:%s", id.String())
}

func (r *CatalogRepository) invalidateProductCache(ctx context.Context, id uuid.UUID) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, productCacheKey(id)).Err()
}

// CreateProduct creates a new product
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()

	// Generate slug from name if not provided, suffixed with the first ID
	// bytes for uniqueness.
	if product.Slug == nil || *product.Slug == "" {
		slug := fmt.Sprintf("%s-%s", generateSlug(product.Name), product.ID.String()[:8])
		product.Slug = &slug
	}

	return r.db.WithContext(ctx).Create(product).Error
}

// GetProductByID retrieves a product without its variants, with caching.
// Returns (nil, nil) when no such product exists.
func (r *CatalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if r.redis != nil {
		if val, err := r.redis.Get(ctx, productCacheKey(id)).Result(); err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, productCacheKey(id), data, productCacheTTL)
		}
	}
	return &product, nil
}

// GetProductByName retrieves a non-deleted product by exact name.
func (r *CatalogRepository) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND status <> ?", name, models.ProductStatusDeleted).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetProductDetail retrieves a product with its variants and attributes.
func (r *CatalogRepository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants.Attributes").
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetProductForUpdate loads the full aggregate under a row lock so
// concurrent stock-delta applications against the same product serialize.
func (r *CatalogRepository) GetProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: models.Product{}.TableName()}}).
		Preload("Variants.Attributes").
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// SaveProduct persists the product and all owned children in one write set.
func (r *CatalogRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(product).Error
	if err == nil {
		r.invalidateProductCache(ctx, product.ID)
	}
	return err
}

// ListProducts retrieves a paginated list of non-deleted products.
func (r *CatalogRepository) ListProducts(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("status <> ?", models.ProductStatusDeleted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// SoftDeleteProduct transitions a product to Deleted without removing rows.
func (r *CatalogRepository) SoftDeleteProduct(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND status <> ?", id, models.ProductStatusDeleted).
		Updates(map[string]interface{}{
			"status":         models.ProductStatusDeleted,
			"modified_at":    now,
			"modified_by_id": actorID,
		}).Error
	if err == nil {
		r.invalidateProductCache(ctx, id)
	}
	return err
}
