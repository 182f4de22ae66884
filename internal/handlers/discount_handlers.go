package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"merchandising-service/internal/config"
	"merchandising-service/internal/events"
	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"
	"merchandising-service/internal/services"
)

// DiscountHandler handles discount and discount-code HTTP requests.
type DiscountHandler struct {
	discounts *repository.DiscountRepository
	service   *services.DiscountService
	publisher *events.Publisher
	logger    *logrus.Logger
	cfg       *config.Config
}

func NewDiscountHandler(discounts *repository.DiscountRepository, service *services.DiscountService, publisher *events.Publisher, logger *logrus.Logger, cfg *config.Config) *DiscountHandler {
	return &DiscountHandler{
		discounts: discounts,
		service:   service,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateDiscount creates a new discount with optional product links and codes
// @Summary Create a discount
// @Description Create a discount; the header and any nested codes commit as one unit
// @Tags discounts
// @Accept json
// @Produce json
// @Param discount body models.AddDiscountRequest true "Discount data"
// @Success 201 {object} models.DiscountResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /discounts [post]
func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	var req models.AddDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	discount, svcErr := h.service.AddDiscount(c.Request.Context(), req)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	if h.publisher != nil && h.publisher.IsConnected() {
		go func() {
			if err := h.publisher.PublishDiscountCreated(discount.ID.String(), discount.Name, discount.IsPercentage, discount.DiscountValue.String()); err != nil {
				h.logger.WithError(err).Warn("Failed to publish discount-created event")
			}
		}()
	}

	c.JSON(201, models.DiscountResponse{Success: true, Data: discount})
}

// ListDiscounts retrieves a paginated list of discounts
// @Summary List discounts
// @Description Get a paginated list of non-deleted discounts
// @Tags discounts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.DiscountListResponse
// @Router /discounts [get]
func (h *DiscountHandler) ListDiscounts(c *gin.Context) {
	page, limit := parsePagination(c, h.cfg)

	discounts, total, err := h.discounts.ListDiscounts(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list discounts")
		respondInternal(c, err)
		return
	}

	c.JSON(200, models.DiscountListResponse{
		Success:    true,
		Data:       discounts,
		Pagination: buildPagination(page, limit, total),
	})
}

// GetDiscount retrieves a discount with its codes and product links
// @Summary Get a discount
// @Description Get a discount by ID including its codes and product links
// @Tags discounts
// @Produce json
// @Param id path string true "Discount ID"
// @Success 200 {object} models.DiscountResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /discounts/{id} [get]
func (h *DiscountHandler) GetDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.discounts.GetDiscountByID(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get discount")
		respondInternal(c, err)
		return
	}
	if discount == nil || discount.Status == models.DiscountStatusDeleted {
		respondServiceError(c, services.NewError(services.CodeDiscountNotFound, "discount not found"))
		return
	}

	c.JSON(200, models.DiscountResponse{Success: true, Data: discount})
}

// AddDiscountCode issues one more code for an existing discount
// @Summary Add a discount code
// @Description Issue a new redeemable code for an existing discount
// @Tags discounts
// @Accept json
// @Produce json
// @Param id path string true "Discount ID"
// @Param code body models.AddDiscountCodeRequest true "Code data"
// @Success 201 {object} models.DiscountCodeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /discounts/{id}/codes [post]
func (h *DiscountHandler) AddDiscountCode(c *gin.Context) {
	discountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid discount ID")
		return
	}

	var req models.AddDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	code, svcErr := h.service.AddDiscountCode(c.Request.Context(), discountID, req)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	if h.publisher != nil && h.publisher.IsConnected() {
		go func() {
			if err := h.publisher.PublishDiscountCodeCreated(discountID.String(), code.Code); err != nil {
				h.logger.WithError(err).Warn("Failed to publish discount-code-created event")
			}
		}()
	}

	c.JSON(201, models.DiscountCodeResponse{Success: true, Data: code})
}

// GetDiscountCodeByCode looks up a code under its normalized form
// @Summary Get a discount code
// @Description Look up a discount code; matching is case-insensitive
// @Tags discounts
// @Produce json
// @Param code path string true "Discount code"
// @Success 200 {object} models.DiscountCodeResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /discount-codes/{code} [get]
func (h *DiscountHandler) GetDiscountCodeByCode(c *gin.Context) {
	code, svcErr := h.service.GetDiscountCodeByCode(c.Request.Context(), c.Param("code"))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(200, models.DiscountCodeResponse{Success: true, Data: code})
}
