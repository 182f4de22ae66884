package services

import (
	"context"

	"github.com/google/uuid"

	"merchandising-service/internal/models"
)

// CatalogStore is the product-aggregate persistence port. Fetch methods
// return (nil, nil) when the row does not exist.
type CatalogStore interface {
	// GetProductForUpdate loads a product with its variants and attributes
	// under a row lock held for the rest of the unit of work.
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// SaveProduct persists the product and all owned children as one write.
	SaveProduct(ctx context.Context, product *models.Product) error
}

// DiscountStore is the discount-aggregate persistence port.
type DiscountStore interface {
	GetDiscountByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	GetDiscountByName(ctx context.Context, name string) (*models.Discount, error)
	// GetDiscountCodeByCode looks up a normalized (uppercase, trimmed) code.
	GetDiscountCodeByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	CreateDiscount(ctx context.Context, discount *models.Discount) error
	UpdateDiscount(ctx context.Context, discount *models.Discount) error
	CreateDiscountCode(ctx context.Context, code *models.DiscountCode) error
}

// UserStore resolves referenced users.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Stores bundles the transaction-scoped stores a unit of work hands to its
// callback.
type Stores struct {
	Catalog   CatalogStore
	Discounts DiscountStore
	Users     UserStore
}

// UnitOfWork runs fn atomically: every store access inside fn commits as one
// all-or-nothing write set, and any error (or panic) rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}
