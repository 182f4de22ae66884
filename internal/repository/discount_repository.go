package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"merchandising-service/internal/models"
)

// DiscountRepository persists discounts, their product links, and codes.
type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// GetDiscountByID retrieves a discount with its codes and product links.
// Returns (nil, nil) when not found.
func (r *DiscountRepository) GetDiscountByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).
		Preload("Codes").
		Preload("Products").
		Where("id = ?", id).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// GetDiscountByName retrieves a discount by its exact name.
func (r *DiscountRepository) GetDiscountByName(ctx context.Context, name string) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// GetDiscountCodeByCode retrieves a code by its normalized form. Codes are
// stored uppercase, so the equality match is effectively case-insensitive.
func (r *DiscountRepository) GetDiscountCodeByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var discountCode models.DiscountCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&discountCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discountCode, nil
}

// CreateDiscount creates a new discount header.
func (r *DiscountRepository) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

// UpdateDiscount persists the discount and its owned children.
func (r *DiscountRepository) UpdateDiscount(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(discount).Error
}

// CreateDiscountCode creates a new discount code.
func (r *DiscountRepository) CreateDiscountCode(ctx context.Context, code *models.DiscountCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// ListDiscounts retrieves a paginated list of non-deleted discounts.
func (r *DiscountRepository) ListDiscounts(ctx context.Context, page, limit int) ([]models.Discount, int64, error) {
	var discounts []models.Discount
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Discount{}).
		Where("status <> ?", models.DiscountStatusDeleted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&discounts).Error; err != nil {
		return nil, 0, err
	}
	return discounts, total, nil
}
