package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"merchandising-service/internal/models"
)

const maxAttributeValueLength = 255

// VariantService keeps a product's variants consistent with the parent
// aggregate: uniform attribute structure, no duplicate variant keys, and the
// denormalized product stock equal to the sum of variant stock.
type VariantService struct {
	uow  UnitOfWork
	gate IdentityGate
	log  *logrus.Logger
}

func NewVariantService(uow UnitOfWork, gate IdentityGate, log *logrus.Logger) *VariantService {
	return &VariantService{uow: uow, gate: gate, log: log}
}

// AddProductVariants adds a batch of variants to a product and returns how
// many were created. The whole batch is validated before anything is written;
// the first violated rule aborts the operation with no partial write.
func (s *VariantService) AddProductVariants(ctx context.Context, productID uuid.UUID, reqs []models.AddVariantRequest) (created int, opErr *Error) {
	defer s.recoverTo("AddProductVariants", &opErr)

	if len(reqs) == 0 {
		return 0, NewError(CodeBadRequest, "at least one variant is required")
	}
	for _, req := range reqs {
		if err := validateVariantRequest(req); err != nil {
			return 0, err
		}
	}

	actorID, gateErr := s.gate.ResolveActingUser(ctx, models.RoleManager)
	if gateErr != nil {
		return 0, gateErr
	}

	err := s.uow.Do(ctx, func(st Stores) error {
		product, err := st.Catalog.GetProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil || product.Status == models.ProductStatusDeleted {
			return NewError(CodeProductNotFound, "product not found")
		}

		existingCount := len(product.Variants)
		switch {
		case product.HasVariant && existingCount <= 1:
			// A variant product with fewer than two variants is corrupt
			// prior state, not a caller error.
			return NewError(CodeDataInconsistency, "product is flagged as having variants but has fewer than two")
		case !product.HasVariant && len(reqs) < 2:
			return NewError(CodeAtLeastTwoProductVariant, "a product needs at least two variants to start with")
		}

		var expectedShape []uuid.UUID
		var existingDicts []map[uuid.UUID]string
		if product.HasVariant && existingCount > 0 {
			expectedShape = ShapeOfVariant(product.Variants[0])
			for _, variant := range product.Variants {
				existingDicts = append(existingDicts, VariantDict(variant))
			}
		} else {
			expectedShape = ShapeOf(reqs[0].Attributes)
		}

		validator := NewAttributeSetValidator(expectedShape, existingDicts)
		for _, req := range reqs {
			if err := validator.Validate(req.Attributes); err != nil {
				return err
			}
		}

		now := time.Now()
		stockDelta := 0
		for _, req := range reqs {
			variant := &models.ProductVariant{
				ID:            uuid.New(),
				ProductID:     productID,
				Price:         req.Price,
				StockQuantity: req.StockQuantity,
				VariantImage:  req.VariantImage,
				Status:        newVariantStatus(req.StockQuantity, product.Status),
				CreatedAt:     now,
				CreatedByID:   &actorID,
			}
			for _, attr := range req.Attributes {
				variant.Attributes = append(variant.Attributes, &models.VariantAttribute{
					ID:            uuid.New(),
					VariantID:     variant.ID,
					VariantNameID: attr.VariantNameID,
					Value:         attr.Value,
					CreatedAt:     now,
					CreatedByID:   &actorID,
				})
			}
			product.Variants = append(product.Variants, variant)
			stockDelta += req.StockQuantity
		}

		product.StockQuantity += stockDelta
		if product.StockQuantity < 0 {
			// delta is non-negative here; guarded for symmetry with updates
			return NewError(CodeInvalidStockQuantity, "aggregate stock would become negative")
		}
		product.HasVariant = true
		product.ModifiedAt = &now
		product.ModifiedByID = &actorID

		return st.Catalog.SaveProduct(ctx, product)
	})
	if err != nil {
		return 0, AsError(err)
	}

	s.log.WithFields(logrus.Fields{
		"productId": productID,
		"variants":  len(reqs),
	}).Info("product variants added")
	return len(reqs), nil
}

// UpdateProductVariant applies a partial update to one variant, keeping the
// parent stock in sync. A patch that changes nothing returns zero changed
// rows and performs no write.
func (s *VariantService) UpdateProductVariant(ctx context.Context, productID, variantID uuid.UUID, req models.UpdateVariantRequest) (changed int, opErr *Error) {
	defer s.recoverTo("UpdateProductVariant", &opErr)

	actorID, gateErr := s.gate.ResolveActingUser(ctx, models.RoleManager)
	if gateErr != nil {
		return 0, gateErr
	}

	err := s.uow.Do(ctx, func(st Stores) error {
		product, err := st.Catalog.GetProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil || product.Status == models.ProductStatusDeleted {
			return NewError(CodeProductNotFound, "product not found")
		}
		if !product.HasVariant || len(product.Variants) == 0 {
			return NewError(CodeDataInconsistency, "product has no variant machinery")
		}

		var variant *models.ProductVariant
		for _, v := range product.Variants {
			if v.ID == variantID {
				variant = v
				break
			}
		}
		if variant == nil {
			return NewError(CodeProductVariantNotFound, "product variant not found")
		}

		hasChanges := false
		stockDelta := 0
		now := time.Now()

		if req.Price != nil && !req.Price.Equal(variant.Price) {
			if req.Price.LessThan(decimal.Zero) {
				return NewError(CodeBadRequest, "price must not be negative")
			}
			variant.Price = *req.Price
			hasChanges = true
		}

		newStock := variant.StockQuantity
		if req.StockQuantity != nil {
			if *req.StockQuantity < 0 {
				return NewError(CodeInvalidStockQuantity, "stock quantity must not be negative")
			}
			newStock = *req.StockQuantity
		}
		if newStock != variant.StockQuantity {
			stockDelta = newStock - variant.StockQuantity
			variant.StockQuantity = newStock
			hasChanges = true
		}

		if req.VariantImage != nil && !equalStringPtr(req.VariantImage, variant.VariantImage) {
			variant.VariantImage = req.VariantImage
			hasChanges = true
		}

		if newStatus := derivedVariantStatus(newStock, req.Status); newStatus != variant.Status {
			variant.Status = newStatus
			hasChanges = true
		}

		if req.Attributes != nil {
			if !shapesEqual(ShapeOf(req.Attributes), ShapeOfVariant(variant)) {
				return NewError(CodeInvalidAttributeStructure, "variant attribute structure must not change")
			}
			// The patched key must stay unique among siblings.
			candidate := AttributeDict(req.Attributes)
			if !dictsEqual(candidate, VariantDict(variant)) {
				for _, sibling := range product.Variants {
					if sibling.ID != variant.ID && dictsEqual(candidate, VariantDict(sibling)) {
						return NewError(CodeVariantAlreadyExists, "a variant with these attribute values already exists")
					}
				}
			}
			for _, next := range req.Attributes {
				for _, attr := range variant.Attributes {
					if attr.VariantNameID == next.VariantNameID && attr.Value != next.Value {
						if len(next.Value) > maxAttributeValueLength {
							return NewError(CodeBadRequest, "attribute value exceeds 255 characters")
						}
						attr.Value = next.Value
						attr.ModifiedAt = &now
						attr.ModifiedByID = &actorID
						hasChanges = true
					}
				}
			}
		}

		if !hasChanges {
			return nil
		}
		changed = 1

		product.StockQuantity += stockDelta
		if product.StockQuantity < 0 {
			return NewError(CodeInvalidStockQuantity, "aggregate stock would become negative")
		}
		variant.ModifiedAt = &now
		variant.ModifiedByID = &actorID
		product.ModifiedAt = &now
		product.ModifiedByID = &actorID

		return st.Catalog.SaveProduct(ctx, product)
	})
	if err != nil {
		return 0, AsError(err)
	}

	if changed == 0 {
		s.log.WithField("variantId", variantID).Debug("variant update was a no-op")
	}
	return changed, nil
}

func validateVariantRequest(req models.AddVariantRequest) *Error {
	if len(req.Attributes) == 0 {
		return NewError(CodeBadRequest, "variant attributes are required")
	}
	if req.Price.LessThan(decimal.Zero) || req.StockQuantity < 0 {
		return NewError(CodeBadRequest, "price and stock quantity must not be negative")
	}
	for _, attr := range req.Attributes {
		if attr.VariantNameID == uuid.Nil {
			return NewError(CodeBadRequest, "attribute dimension id is required")
		}
		if attr.Value == "" || len(attr.Value) > maxAttributeValueLength {
			return NewError(CodeBadRequest, "attribute value must be 1-255 characters")
		}
	}
	return nil
}

// newVariantStatus derives the status of a freshly created variant: no stock
// means out of stock, otherwise it mirrors the parent's active/inactive state.
func newVariantStatus(stock int, productStatus models.ProductStatus) models.ProductStatus {
	if stock == 0 {
		return models.ProductStatusOutOfStock
	}
	if productStatus == models.ProductStatusActive {
		return models.ProductStatusActive
	}
	return models.ProductStatusInactive
}

// derivedVariantStatus applies the variant status rules on update: zero stock
// always wins, a requested Inactive is honored, anything else is Active.
func derivedVariantStatus(stock int, requested *models.ProductStatus) models.ProductStatus {
	if stock == 0 {
		return models.ProductStatusOutOfStock
	}
	if requested != nil && *requested == models.ProductStatusInactive {
		return models.ProductStatusInactive
	}
	return models.ProductStatusActive
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// recoverTo converts a panic escaping an operation into an internal error so
// nothing but *Error crosses the engine boundary.
func (s *VariantService) recoverTo(op string, opErr **Error) {
	if r := recover(); r != nil {
		s.log.WithField("op", op).Errorf("recovered: %v", r)
		*opErr = Internal(fmt.Errorf("panic in %s: %v", op, r))
	}
}
