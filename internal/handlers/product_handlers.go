package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"merchandising-service/internal/config"
	"merchandising-service/internal/events"
	"merchandising-service/internal/models"
	"merchandising-service/internal/services"
)

// ProductStore is the catalog surface the product handler needs. The gorm
// repository satisfies it; tests substitute an in-memory fake.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, limit int) ([]models.Product, int64, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	SoftDeleteProduct(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

// ProductHandler handles product and variant HTTP requests.
type ProductHandler struct {
	catalog   ProductStore
	variants  *services.VariantService
	publisher *events.Publisher
	logger    *logrus.Logger
	cfg       *config.Config
}

func NewProductHandler(catalog ProductStore, variants *services.VariantService, publisher *events.Publisher, logger *logrus.Logger, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		catalog:   catalog,
		variants:  variants,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateProduct creates a new product
// @Summary Create a new product
// @Description Create a new catalog product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	identity, _ := services.IdentityFromContext(c.Request.Context())

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		CreatedByID: &identity.UserID,
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	product.Status = deriveProductStatus(product.StockQuantity, req.Status)

	if err := h.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		respondInternal(c, err)
		return
	}

	c.JSON(201, models.ProductResponse{Success: true, Data: product})
}

// UpdateProduct updates a product's own fields
// @Summary Update a product
// @Description Update a product's name, description, price, stock, and status
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Product data"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product ID")
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "Product name is required")
		return
	}
	if req.Price.IsNegative() {
		respondBadRequest(c, "Price must not be negative")
		return
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		respondBadRequest(c, "Stock quantity must not be negative")
		return
	}

	identity, _ := services.IdentityFromContext(c.Request.Context())

	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondInternal(c, err)
		return
	}
	if product == nil || product.Status == models.ProductStatusDeleted {
		respondServiceError(c, services.NewError(services.CodeProductNotFound, "product not found"))
		return
	}

	existing, err := h.catalog.GetProductByName(c.Request.Context(), name)
	if err != nil {
		respondInternal(c, err)
		return
	}
	if existing != nil && existing.ID != product.ID {
		respondServiceError(c, services.NewError(services.CodeNameAlreadyExists, "a product with this name already exists"))
		return
	}

	// Aggregate stock of a variant product is derived from its variants.
	if product.HasVariant && req.StockQuantity != nil && *req.StockQuantity != product.StockQuantity {
		respondBadRequest(c, "Stock of a variant product is managed through its variants")
		return
	}

	product.Name = name
	product.Description = req.Description
	product.Price = req.Price
	if !product.HasVariant && req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	product.Status = deriveProductStatus(product.StockQuantity, req.Status)
	now := time.Now()
	product.ModifiedAt = &now
	product.ModifiedByID = &identity.UserID

	if err := h.catalog.SaveProduct(c.Request.Context(), product); err != nil {
		h.logger.WithError(err).Error("Failed to update product")
		respondInternal(c, err)
		return
	}

	c.JSON(200, models.ProductResponse{Success: true, Data: product})
}

// deriveProductStatus applies the product status rules: zero stock always
// derives OUT_OF_STOCK, a requested INACTIVE is honored when stocked,
// anything else is ACTIVE.
func deriveProductStatus(stock int, requested *models.ProductStatus) models.ProductStatus {
	if stock == 0 {
		return models.ProductStatusOutOfStock
	}
	if requested != nil && *requested == models.ProductStatusInactive {
		return models.ProductStatusInactive
	}
	return models.ProductStatusActive
}

// GetProduct retrieves a product with its variants
// @Summary Get a product
// @Description Get a product by ID including variants and attributes
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalog.GetProductDetail(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get product")
		respondInternal(c, err)
		return
	}
	if product == nil || product.Status == models.ProductStatusDeleted {
		respondServiceError(c, services.NewError(services.CodeProductNotFound, "product not found"))
		return
	}

	c.JSON(200, models.ProductResponse{Success: true, Data: product})
}

// ListProducts retrieves a paginated list of products
// @Summary List products
// @Description Get a paginated list of non-deleted products
// @Tags products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.ProductListResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := parsePagination(c, h.cfg)

	products, total, err := h.catalog.ListProducts(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondInternal(c, err)
		return
	}

	c.JSON(200, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: buildPagination(page, limit, total),
	})
}

// DeleteProduct soft-deletes a product
// @Summary Delete a product
// @Description Soft-delete a product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product ID")
		return
	}

	identity, _ := services.IdentityFromContext(c.Request.Context())

	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondInternal(c, err)
		return
	}
	if product == nil || product.Status == models.ProductStatusDeleted {
		respondServiceError(c, services.NewError(services.CodeProductNotFound, "product not found"))
		return
	}

	if err := h.catalog.SoftDeleteProduct(c.Request.Context(), id, identity.UserID); err != nil {
		h.logger.WithError(err).Error("Failed to delete product")
		respondInternal(c, err)
		return
	}

	message := "Product deleted successfully"
	c.JSON(200, models.SuccessResponse{Success: true, Message: &message})
}

// AddVariants adds a batch of variants to a product
// @Summary Add product variants
// @Description Add a batch of variants to a product; the whole batch succeeds or fails together
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param variants body models.AddVariantsRequest true "Variants to add"
// @Success 201 {object} models.VariantCountResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /products/{id}/variants [post]
func (h *ProductHandler) AddVariants(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product ID")
		return
	}

	var req models.AddVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	created, svcErr := h.variants.AddProductVariants(c.Request.Context(), productID, req.Variants)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	if h.publisher != nil && h.publisher.IsConnected() {
		stock := 0
		for _, v := range req.Variants {
			stock += v.StockQuantity
		}
		go func() {
			if err := h.publisher.PublishVariantsAdded(productID.String(), created, stock); err != nil {
				h.logger.WithError(err).Warn("Failed to publish variants-added event")
			}
		}()
	}

	c.JSON(201, models.VariantCountResponse{Success: true, Created: created})
}

// UpdateVariant applies a partial update to one variant
// @Summary Update a product variant
// @Description Partially update one variant; parent stock stays in sync
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param variantId path string true "Variant ID"
// @Param variant body models.UpdateVariantRequest true "Fields to change"
// @Success 200 {object} models.VariantUpdateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/variants/{variantId} [patch]
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product ID")
		return
	}
	variantID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		respondBadRequest(c, "Invalid variant ID")
		return
	}

	var req models.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	changed, svcErr := h.variants.UpdateProductVariant(c.Request.Context(), productID, variantID, req)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	if changed > 0 && h.publisher != nil && h.publisher.IsConnected() {
		go func() {
			if err := h.publisher.PublishVariantUpdated(productID.String(), variantID.String()); err != nil {
				h.logger.WithError(err).Warn("Failed to publish variant-updated event")
			}
		}()
	}

	c.JSON(200, models.VariantUpdateResponse{Success: true, Changed: changed})
}
