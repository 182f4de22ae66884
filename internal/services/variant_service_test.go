package services

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchandising-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newVariantService(catalog *fakeCatalogStore, gate IdentityGate) *VariantService {
	uow := &fakeUnitOfWork{stores: Stores{
		Catalog:   catalog,
		Discounts: newFakeDiscountStore(),
		Users:     newFakeUserStore(),
	}}
	return NewVariantService(uow, gate, testLogger())
}

// simpleProduct has no variants yet.
func simpleProduct(stock int) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		Name:          "Plain Tee",
		Price:         decimal.NewFromInt(20),
		StockQuantity: stock,
		Status:        models.ProductStatusActive,
	}
}

// variantProduct has two committed variants over (color, size).
func variantProduct(colorID, sizeID uuid.UUID) *models.Product {
	product := simpleProduct(15)
	product.HasVariant = true
	for _, row := range []struct {
		color string
		size  string
		stock int
	}{
		{"Red", "M", 10},
		{"Red", "L", 5},
	} {
		variant := &models.ProductVariant{
			ID:            uuid.New(),
			ProductID:     product.ID,
			Price:         decimal.NewFromInt(20),
			StockQuantity: row.stock,
			Status:        models.ProductStatusActive,
		}
		variant.Attributes = []*models.VariantAttribute{
			{ID: uuid.New(), VariantID: variant.ID, VariantNameID: colorID, Value: row.color},
			{ID: uuid.New(), VariantID: variant.ID, VariantNameID: sizeID, Value: row.size},
		}
		product.Variants = append(product.Variants, variant)
	}
	return product
}

func addReq(colorID, sizeID uuid.UUID, color, size string, stock int) models.AddVariantRequest {
	return models.AddVariantRequest{
		Price:         decimal.NewFromInt(25),
		StockQuantity: stock,
		Attributes: []models.AttributeValue{
			{VariantNameID: colorID, Value: color},
			{VariantNameID: sizeID, Value: size},
		},
	}
}

func TestAddProductVariants(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	gate := &fakeGate{actorID: actorID}
	colorID := uuid.New()
	sizeID := uuid.New()

	t.Run("rejects an empty batch", func(t *testing.T) {
		svc := newVariantService(newFakeCatalogStore(), gate)

		_, err := svc.AddProductVariants(ctx, uuid.New(), nil)
		require.NotNil(t, err)
		assert.Equal(t, CodeBadRequest, err.Code)
	})

	t.Run("rejects negative price before touching storage", func(t *testing.T) {
		catalog := newFakeCatalogStore()
		svc := newVariantService(catalog, gate)

		req := addReq(colorID, sizeID, "Red", "M", 1)
		req.Price = decimal.NewFromInt(-1)
		_, err := svc.AddProductVariants(ctx, uuid.New(), []models.AddVariantRequest{req})
		require.NotNil(t, err)
		assert.Equal(t, CodeBadRequest, err.Code)
		assert.Empty(t, catalog.saved)
	})

	t.Run("propagates gate failures", func(t *testing.T) {
		svc := newVariantService(newFakeCatalogStore(), &fakeGate{err: NewError(CodeForbidden, "insufficient role")})

		_, err := svc.AddProductVariants(ctx, uuid.New(), []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 1),
			addReq(colorID, sizeID, "Red", "L", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeForbidden, err.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := newVariantService(newFakeCatalogStore(), gate)

		_, err := svc.AddProductVariants(ctx, uuid.New(), []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 1),
			addReq(colorID, sizeID, "Red", "L", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeProductNotFound, err.Code)
	})

	t.Run("deleted product reads as missing", func(t *testing.T) {
		product := simpleProduct(0)
		product.Status = models.ProductStatusDeleted
		svc := newVariantService(newFakeCatalogStore(product), gate)

		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 1),
			addReq(colorID, sizeID, "Red", "L", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeProductNotFound, err.Code)
	})

	t.Run("first batch needs at least two variants", func(t *testing.T) {
		product := simpleProduct(0)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeAtLeastTwoProductVariant, err.Code)
	})

	t.Run("variant product with one stored variant is corrupt", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		product.Variants = product.Variants[:1]
		svc := newVariantService(newFakeCatalogStore(product), gate)

		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Blue", "M", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeDataInconsistency, err.Code)
	})

	t.Run("first batch creates variants and flips hasVariant", func(t *testing.T) {
		product := simpleProduct(0)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		created, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 10),
			addReq(colorID, sizeID, "Red", "L", 0),
		})
		require.Nil(t, err)
		assert.Equal(t, 2, created)
		require.Len(t, catalog.saved, 1)

		assert.True(t, product.HasVariant)
		assert.Equal(t, 10, product.StockQuantity)
		require.Len(t, product.Variants, 2)
		assert.Equal(t, models.ProductStatusActive, product.Variants[0].Status)
		assert.Equal(t, models.ProductStatusOutOfStock, product.Variants[1].Status)
		assert.Equal(t, &actorID, product.Variants[0].CreatedByID)
		require.NotNil(t, product.ModifiedAt)
	})

	t.Run("new variants on an inactive product start inactive", func(t *testing.T) {
		product := simpleProduct(0)
		product.Status = models.ProductStatusInactive
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 3),
			addReq(colorID, sizeID, "Red", "L", 4),
		})
		require.Nil(t, err)
		assert.Equal(t, models.ProductStatusInactive, product.Variants[0].Status)
		assert.Equal(t, models.ProductStatusInactive, product.Variants[1].Status)
	})

	t.Run("a single new variant joins an existing set", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		created, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Blue", "M", 7),
		})
		require.Nil(t, err)
		assert.Equal(t, 1, created)
		assert.Len(t, product.Variants, 3)
		assert.Equal(t, 22, product.StockQuantity)
	})

	t.Run("duplicate of a committed variant", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeVariantAlreadyExists, err.Code)
		assert.Empty(t, catalog.saved)
	})

	t.Run("shape mismatch against committed variants", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		materialID := uuid.New()
		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, materialID, "Blue", "Cotton", 1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeDataInconsistency, err.Code)
	})

	t.Run("duplicate within the batch aborts everything", func(t *testing.T) {
		product := simpleProduct(0)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		_, err := svc.AddProductVariants(ctx, product.ID, []models.AddVariantRequest{
			addReq(colorID, sizeID, "Red", "M", 1),
			addReq(colorID, sizeID, "Red", "M", 2),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeBadRequest, err.Code)
		assert.Empty(t, catalog.saved)
		assert.False(t, product.HasVariant)
	})
}

func TestUpdateProductVariant(t *testing.T) {
	ctx := context.Background()
	gate := &fakeGate{actorID: uuid.New()}
	colorID := uuid.New()
	sizeID := uuid.New()

	intPtr := func(v int) *int { return &v }
	decPtr := func(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }

	t.Run("unknown variant", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		_, err := svc.UpdateProductVariant(ctx, product.ID, uuid.New(), models.UpdateVariantRequest{Price: decPtr(30)})
		require.NotNil(t, err)
		assert.Equal(t, CodeProductVariantNotFound, err.Code)
	})

	t.Run("product without variant machinery", func(t *testing.T) {
		product := simpleProduct(5)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		_, err := svc.UpdateProductVariant(ctx, product.ID, uuid.New(), models.UpdateVariantRequest{Price: decPtr(30)})
		require.NotNil(t, err)
		assert.Equal(t, CodeDataInconsistency, err.Code)
	})

	t.Run("empty patch is an idempotent no-op", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{})
		require.Nil(t, err)
		assert.Equal(t, 0, changed)
		assert.Empty(t, catalog.saved)
	})

	t.Run("patch equal to current state is a no-op", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			Price:         decPtr(20),
			StockQuantity: intPtr(10),
		})
		require.Nil(t, err)
		assert.Equal(t, 0, changed)
		assert.Empty(t, catalog.saved)
	})

	t.Run("stock change flows into the aggregate", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			StockQuantity: intPtr(4),
		})
		require.Nil(t, err)
		assert.Equal(t, 1, changed)
		assert.Equal(t, 4, product.Variants[0].StockQuantity)
		assert.Equal(t, 9, product.StockQuantity)
		require.Len(t, catalog.saved, 1)
	})

	t.Run("explicit zero stock is honored and drives status", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			StockQuantity: intPtr(0),
		})
		require.Nil(t, err)
		assert.Equal(t, 1, changed)
		assert.Equal(t, models.ProductStatusOutOfStock, product.Variants[0].Status)
		assert.Equal(t, 5, product.StockQuantity)
	})

	t.Run("negative stock is rejected", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		_, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			StockQuantity: intPtr(-1),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeInvalidStockQuantity, err.Code)
		assert.Empty(t, catalog.saved)
	})

	t.Run("aggregate stock may not go negative", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		product.StockQuantity = 3 // drifted below the variant sum
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		_, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			StockQuantity: intPtr(0),
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeInvalidStockQuantity, err.Code)
		assert.Empty(t, catalog.saved)
	})

	t.Run("requested inactive wins over active when stocked", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		inactive := models.ProductStatusInactive
		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			Status: &inactive,
		})
		require.Nil(t, err)
		assert.Equal(t, 1, changed)
		assert.Equal(t, models.ProductStatusInactive, product.Variants[0].Status)
	})

	t.Run("restocking an out-of-stock variant reactivates it", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		product.Variants[0].StockQuantity = 0
		product.Variants[0].Status = models.ProductStatusOutOfStock
		product.StockQuantity = 5
		svc := newVariantService(newFakeCatalogStore(product), gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			StockQuantity: intPtr(6),
		})
		require.Nil(t, err)
		assert.Equal(t, 1, changed)
		assert.Equal(t, models.ProductStatusActive, product.Variants[0].Status)
		assert.Equal(t, 11, product.StockQuantity)
	})

	t.Run("attribute shape may not change", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		svc := newVariantService(newFakeCatalogStore(product), gate)

		_, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			Attributes: []models.AttributeValue{
				{VariantNameID: colorID, Value: "Green"},
			},
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeInvalidAttributeStructure, err.Code)
	})

	t.Run("patched values may not collide with a sibling variant", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		// Variant 2 is {Red, L}; patching it to {Red, M} would duplicate
		// variant 1's key.
		_, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[1].ID, models.UpdateVariantRequest{
			Attributes: []models.AttributeValue{
				{VariantNameID: colorID, Value: "Red"},
				{VariantNameID: sizeID, Value: "M"},
			},
		})
		require.NotNil(t, err)
		assert.Equal(t, CodeVariantAlreadyExists, err.Code)
		assert.Empty(t, catalog.saved)
	})

	t.Run("repeating a variant's own values is not a collision", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			Attributes: []models.AttributeValue{
				{VariantNameID: colorID, Value: "Red"},
				{VariantNameID: sizeID, Value: "M"},
			},
		})
		require.Nil(t, err)
		assert.Equal(t, 0, changed)
		assert.Empty(t, catalog.saved)
	})

	t.Run("a patch without status reactivates a stocked inactive variant", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		product.Variants[0].Status = models.ProductStatusInactive
		svc := newVariantService(newFakeCatalogStore(product), gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			Price: decPtr(22),
		})
		require.Nil(t, err)
		assert.Equal(t, 1, changed)
		assert.Equal(t, models.ProductStatusActive, product.Variants[0].Status)
	})

	t.Run("attribute value change counts as a change", func(t *testing.T) {
		product := variantProduct(colorID, sizeID)
		catalog := newFakeCatalogStore(product)
		svc := newVariantService(catalog, gate)

		changed, err := svc.UpdateProductVariant(ctx, product.ID, product.Variants[0].ID, models.UpdateVariantRequest{
			Attributes: []models.AttributeValue{
				{VariantNameID: colorID, Value: "Green"},
				{VariantNameID: sizeID, Value: "M"},
			},
		})
		require.Nil(t, err)
		assert.Equal(t, 1, changed)
		require.Len(t, catalog.saved, 1)

		var colorValue string
		for _, attr := range product.Variants[0].Attributes {
			if attr.VariantNameID == colorID {
				colorValue = attr.Value
			}
		}
		assert.Equal(t, "Green", colorValue)
	})
}
