package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product or variant
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "ACTIVE"
	ProductStatusInactive   ProductStatus = "INACTIVE"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
	ProductStatusDeleted    ProductStatus = "DELETED"
)

// Product represents a catalog product. StockQuantity is the denormalized sum
// of variant stock whenever HasVariant is true.
type Product struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string            `json:"name" gorm:"not null"`
	Slug          *string           `json:"slug,omitempty" gorm:"uniqueIndex"`
	Description   *string           `json:"description,omitempty"`
	Price         decimal.Decimal   `json:"price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int               `json:"stockQuantity" gorm:"not null;default:0"`
	SoldQuantity  int               `json:"soldQuantity" gorm:"not null;default:0"`
	HasVariant    bool              `json:"hasVariant" gorm:"not null;default:false"`
	Status        ProductStatus     `json:"status" gorm:"not null;default:'ACTIVE';index"`
	Variants      []*ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedByID   *uuid.UUID        `json:"createdById,omitempty" gorm:"type:uuid"`
	ModifiedAt    *time.Time        `json:"modifiedAt,omitempty"`
	ModifiedByID  *uuid.UUID        `json:"modifiedById,omitempty" gorm:"type:uuid"`
}

// ProductVariant represents a purchasable variant of a product
type ProductVariant struct {
	ID            uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID     uuid.UUID           `json:"productId" gorm:"type:uuid;not null;index"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int                 `json:"stockQuantity" gorm:"not null;default:0"`
	SoldQuantity  int                 `json:"soldQuantity" gorm:"not null;default:0"`
	VariantImage  *string             `json:"variantImage,omitempty"`
	Status        ProductStatus       `json:"status" gorm:"not null;default:'ACTIVE'"`
	Attributes    []*VariantAttribute `json:"attributes,omitempty" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedByID   *uuid.UUID          `json:"createdById,omitempty" gorm:"type:uuid"`
	ModifiedAt    *time.Time          `json:"modifiedAt,omitempty"`
	ModifiedByID  *uuid.UUID          `json:"modifiedById,omitempty" gorm:"type:uuid"`
}

// VariantAttribute is one dimension/value pair of a variant's identity,
// e.g. (Color, "Red"). The set of VariantNameIDs on a variant is its shape.
type VariantAttribute struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VariantID     uuid.UUID  `json:"variantId" gorm:"type:uuid;not null;index"`
	VariantNameID uuid.UUID  `json:"variantNameId" gorm:"type:uuid;not null"`
	Value         string     `json:"value" gorm:"not null;size:255"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedByID   *uuid.UUID `json:"createdById,omitempty" gorm:"type:uuid"`
	ModifiedAt    *time.Time `json:"modifiedAt,omitempty"`
	ModifiedByID  *uuid.UUID `json:"modifiedById,omitempty" gorm:"type:uuid"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Slug          *string         `json:"slug,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity *int            `json:"stockQuantity,omitempty"`
	Status        *ProductStatus  `json:"status,omitempty"`
}

// UpdateProductRequest represents a full update of a product's own fields.
// Stock is only settable on products without variants; variant products keep
// their stock derived from variant mutations.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity *int            `json:"stockQuantity,omitempty"`
	Status        *ProductStatus  `json:"status,omitempty"`
}

// AttributeValue is one (dimension, value) pair in a variant request
type AttributeValue struct {
	VariantNameID uuid.UUID `json:"variantNameId" binding:"required"`
	Value         string    `json:"value" binding:"required"`
}

// AddVariantRequest represents a single variant in an add-variants batch
type AddVariantRequest struct {
	Price         decimal.Decimal  `json:"price" binding:"required"`
	StockQuantity int              `json:"stockQuantity"`
	VariantImage  *string          `json:"variantImage,omitempty"`
	Attributes    []AttributeValue `json:"attributes" binding:"required"`
}

// AddVariantsRequest represents a batch of variants to add to a product
type AddVariantsRequest struct {
	Variants []AddVariantRequest `json:"variants" binding:"required"`
}

// UpdateVariantRequest is a partial update of a single variant.
// Nil fields are left unchanged; an explicit zero stock is honored.
type UpdateVariantRequest struct {
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
	VariantImage  *string          `json:"variantImage,omitempty"`
	Status        *ProductStatus   `json:"status,omitempty"`
	Attributes    []AttributeValue `json:"attributes,omitempty"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// ProductResponse represents a single product response
type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

// ProductListResponse represents a list of products response
type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// VariantCountResponse reports how many variants a batch created
type VariantCountResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

// VariantUpdateResponse reports how many rows a variant update changed
type VariantUpdateResponse struct {
	Success bool `json:"success"`
	Changed int  `json:"changed"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Error represents error details
type Error struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Field   string  `json:"field,omitempty"`
	Details *string `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// TableName returns the table name for the VariantAttribute model
func (VariantAttribute) TableName() string {
	return "variant_attributes"
}
