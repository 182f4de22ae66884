package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountStatus represents the status of a discount
type DiscountStatus string

const (
	DiscountStatusActive   DiscountStatus = "ACTIVE"
	DiscountStatusInactive DiscountStatus = "INACTIVE"
	DiscountStatusDeleted  DiscountStatus = "DELETED"
)

// DiscountCodeStatus represents the status of a discount code
type DiscountCodeStatus string

const (
	DiscountCodeStatusActive   DiscountCodeStatus = "ACTIVE"
	DiscountCodeStatusInactive DiscountCodeStatus = "INACTIVE"
)

// Discount represents a promotional discount. Codes and product links are
// owned children and never outlive the discount.
type Discount struct {
	ID                 uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name               string             `json:"name" gorm:"not null;uniqueIndex"`
	Description        *string            `json:"description,omitempty"`
	IsPercentage       bool               `json:"isPercentage" gorm:"not null;default:false"`
	DiscountValue      decimal.Decimal    `json:"discountValue" gorm:"type:decimal(12,2);not null"`
	MinimumOrderAmount *decimal.Decimal   `json:"minimumOrderAmount,omitempty" gorm:"type:decimal(12,2)"`
	MaximumDiscount    *decimal.Decimal   `json:"maximumDiscount,omitempty" gorm:"type:decimal(12,2)"`
	FromDate           time.Time          `json:"fromDate" gorm:"not null"`
	ToDate             time.Time          `json:"toDate" gorm:"not null"`
	UsageLimit         *int               `json:"usageLimit,omitempty"`
	UsedCount          int                `json:"usedCount" gorm:"not null;default:0"`
	MinQuantity        *int               `json:"minQuantity,omitempty"`
	MaxQuantity        *int               `json:"maxQuantity,omitempty"`
	IsFirstOrder       bool               `json:"isFirstOrder" gorm:"not null;default:false"`
	Status             DiscountStatus     `json:"status" gorm:"not null;default:'ACTIVE';index"`
	Products           []*DiscountProduct `json:"products,omitempty" gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE"`
	Codes              []*DiscountCode    `json:"codes,omitempty" gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedByID        *uuid.UUID         `json:"createdById,omitempty" gorm:"type:uuid"`
	ModifiedAt         *time.Time         `json:"modifiedAt,omitempty"`
	ModifiedByID       *uuid.UUID         `json:"modifiedById,omitempty" gorm:"type:uuid"`
}

// DiscountProduct links a discount to a product it applies to
type DiscountProduct struct {
	DiscountID uuid.UUID `json:"discountId" gorm:"type:uuid;primary_key"`
	ProductID  uuid.UUID `json:"productId" gorm:"type:uuid;primary_key"`
}

// DiscountCode is a redeemable code for a discount. Code is stored uppercase
// and trimmed; the unique index on the normalized column backs the
// case-insensitive global uniqueness rule under concurrent issuance.
type DiscountCode struct {
	ID           uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DiscountID   uuid.UUID          `json:"discountId" gorm:"type:uuid;not null;index"`
	UserID       *uuid.UUID         `json:"userId,omitempty" gorm:"type:uuid"`
	Code         string             `json:"code" gorm:"not null;uniqueIndex"`
	FromDate     time.Time          `json:"fromDate" gorm:"not null"`
	ToDate       time.Time          `json:"toDate" gorm:"not null"`
	Status       DiscountCodeStatus `json:"status" gorm:"not null;default:'ACTIVE'"`
	CreatedAt    time.Time          `json:"createdAt"`
	CreatedByID  *uuid.UUID         `json:"createdById,omitempty" gorm:"type:uuid"`
	ModifiedAt   *time.Time         `json:"modifiedAt,omitempty"`
	ModifiedByID *uuid.UUID         `json:"modifiedById,omitempty" gorm:"type:uuid"`
}

// AddDiscountCodeRequest represents a nested or incremental code request
type AddDiscountCodeRequest struct {
	Code     string              `json:"code" binding:"required"`
	UserID   *uuid.UUID          `json:"userId,omitempty"`
	FromDate *time.Time          `json:"fromDate,omitempty"`
	ToDate   *time.Time          `json:"toDate,omitempty"`
	Status   *DiscountCodeStatus `json:"status,omitempty"`
}

// AddDiscountRequest represents a request to create a new discount
type AddDiscountRequest struct {
	Name               string                   `json:"name" binding:"required"`
	Description        *string                  `json:"description,omitempty"`
	IsPercentage       bool                     `json:"isPercentage"`
	DiscountValue      decimal.Decimal          `json:"discountValue" binding:"required"`
	MinimumOrderAmount *decimal.Decimal         `json:"minimumOrderAmount,omitempty"`
	MaximumDiscount    *decimal.Decimal         `json:"maximumDiscount,omitempty"`
	FromDate           *time.Time               `json:"fromDate,omitempty"`
	ToDate             *time.Time               `json:"toDate,omitempty"`
	UsageLimit         *int                     `json:"usageLimit,omitempty"`
	MinQuantity        *int                     `json:"minQuantity,omitempty"`
	MaxQuantity        *int                     `json:"maxQuantity,omitempty"`
	IsFirstOrder       bool                     `json:"isFirstOrder"`
	Status             *DiscountStatus          `json:"status,omitempty"`
	ProductIDs         []uuid.UUID              `json:"productIds,omitempty"`
	Codes              []AddDiscountCodeRequest `json:"codes,omitempty"`
}

// DiscountResponse represents a single discount response
type DiscountResponse struct {
	Success bool      `json:"success"`
	Data    *Discount `json:"data"`
	Message *string   `json:"message,omitempty"`
}

// DiscountListResponse represents a list of discounts response
type DiscountListResponse struct {
	Success    bool            `json:"success"`
	Data       []Discount      `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// DiscountCodeResponse represents a single discount code response
type DiscountCodeResponse struct {
	Success bool          `json:"success"`
	Data    *DiscountCode `json:"data"`
	Message *string       `json:"message,omitempty"`
}

// TableName returns the table name for the Discount model
func (Discount) TableName() string {
	return "discounts"
}

// TableName returns the table name for the DiscountProduct model
func (DiscountProduct) TableName() string {
	return "discount_products"
}

// TableName returns the table name for the DiscountCode model
func (DiscountCode) TableName() string {
	return "discount_codes"
}
