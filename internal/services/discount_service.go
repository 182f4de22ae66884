package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"merchandising-service/internal/models"
)

// discountOpenEnd stands in for an unbounded discount window.
var discountOpenEnd = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

var discountCodeFormat = regexp.MustCompile(`^[a-zA-Z0-9]{4,20}$`)

var oneHundred = decimal.NewFromInt(100)

// DiscountService validates and persists promotional discounts and their
// redeemable codes. Each operation runs an ordered pipeline and returns the
// first violated rule.
type DiscountService struct {
	uow  UnitOfWork
	gate IdentityGate
	log  *logrus.Logger
}

func NewDiscountService(uow UnitOfWork, gate IdentityGate, log *logrus.Logger) *DiscountService {
	return &DiscountService{uow: uow, gate: gate, log: log}
}

// NormalizeCode is the canonical form a code is stored and compared in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// AddDiscount creates a discount with optional product links and nested
// codes. The header insert and the children attach commit as one unit; a
// failure anywhere rolls back everything including the header.
func (s *DiscountService) AddDiscount(ctx context.Context, req models.AddDiscountRequest) (discount *models.Discount, opErr *Error) {
	defer s.recoverTo("AddDiscount", &opErr)

	actorID, gateErr := s.gate.ResolveActingUser(ctx, models.RoleManager)
	if gateErr != nil {
		return nil, gateErr
	}

	err := s.uow.Do(ctx, func(st Stores) error {
		existing, err := st.Discounts.GetDiscountByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status != models.DiscountStatusDeleted {
			return NewError(CodeNameAlreadyExists, "a discount with this name already exists")
		}

		if req.IsPercentage {
			if req.DiscountValue.LessThan(decimal.Zero) || req.DiscountValue.GreaterThan(oneHundred) {
				return NewError(CodeInvalidPercentage, "percentage value must be between 0 and 100")
			}
			if req.MaximumDiscount == nil || !req.MaximumDiscount.GreaterThan(decimal.Zero) {
				return NewError(CodeInvalidNumber, "a percentage discount requires a positive maximum discount")
			}
		} else if !req.DiscountValue.GreaterThan(decimal.Zero) {
			return NewError(CodeInvalidNumber, "discount value must be positive")
		}

		if req.FromDate != nil || req.ToDate != nil {
			if req.FromDate != nil && req.ToDate != nil && req.FromDate.After(*req.ToDate) {
				return NewError(CodeInvalidDate, "fromDate must not be after toDate")
			}
			if req.FromDate != nil && req.FromDate.Before(startOfToday()) {
				return NewError(CodeInvalidDate, "fromDate must not be in the past")
			}
		}

		fromDate := startOfToday()
		if req.FromDate != nil {
			fromDate = *req.FromDate
		}
		toDate := discountOpenEnd
		if req.ToDate != nil {
			toDate = *req.ToDate
		}

		for _, code := range req.Codes {
			if (code.FromDate != nil && code.FromDate.Before(fromDate)) ||
				(code.ToDate != nil && code.ToDate.After(toDate)) {
				return NewError(CodeInvalidDate, "code window must lie within the discount window")
			}
		}

		if req.MinimumOrderAmount != nil && req.MinimumOrderAmount.LessThan(decimal.Zero) {
			return NewError(CodeInvalidNumber, "minimum order amount must not be negative")
		}
		if req.UsageLimit != nil && *req.UsageLimit < 0 {
			return NewError(CodeInvalidNumber, "usage limit must not be negative")
		}
		if req.MinQuantity != nil || req.MaxQuantity != nil {
			if (req.MinQuantity != nil && *req.MinQuantity < 0) ||
				(req.MaxQuantity != nil && *req.MaxQuantity < 0) {
				return NewError(CodeInvalidNumber, "quantity bounds must not be negative")
			}
			if req.MinQuantity != nil && req.MaxQuantity != nil && *req.MinQuantity > *req.MaxQuantity {
				return NewError(CodeInvalidNumber, "minQuantity must not exceed maxQuantity")
			}
		}

		for _, productID := range req.ProductIDs {
			product, err := st.Catalog.GetProductByID(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil || product.Status == models.ProductStatusInactive || product.Status == models.ProductStatusDeleted {
				return NewError(CodeDiscountNotFound, "attached product does not exist or is not eligible")
			}
		}

		// Global code uniqueness, checked before any write.
		for _, code := range req.Codes {
			taken, err := st.Discounts.GetDiscountCodeByCode(ctx, NormalizeCode(code.Code))
			if err != nil {
				return err
			}
			if taken != nil {
				return NewError(CodeDiscountCodeAlreadyExists, "discount code already exists")
			}
		}

		now := time.Now()
		status := models.DiscountStatusActive
		if req.Status != nil && *req.Status == models.DiscountStatusInactive {
			status = models.DiscountStatusInactive
		}
		discount = &models.Discount{
			ID:                 uuid.New(),
			Name:               req.Name,
			Description:        req.Description,
			IsPercentage:       req.IsPercentage,
			DiscountValue:      req.DiscountValue,
			MinimumOrderAmount: req.MinimumOrderAmount,
			MaximumDiscount:    req.MaximumDiscount,
			FromDate:           fromDate,
			ToDate:             toDate,
			UsageLimit:         req.UsageLimit,
			UsedCount:          0,
			MinQuantity:        req.MinQuantity,
			MaxQuantity:        req.MaxQuantity,
			IsFirstOrder:       req.IsFirstOrder,
			Status:             status,
			CreatedAt:          now,
			CreatedByID:        &actorID,
		}

		if err := st.Discounts.CreateDiscount(ctx, discount); err != nil {
			return err
		}

		// Attach children with a second write only when any were supplied.
		needUpdate := false
		if len(req.ProductIDs) > 0 {
			for _, productID := range req.ProductIDs {
				discount.Products = append(discount.Products, &models.DiscountProduct{
					DiscountID: discount.ID,
					ProductID:  productID,
				})
			}
			needUpdate = true
		}
		if len(req.Codes) > 0 {
			for _, code := range req.Codes {
				discount.Codes = append(discount.Codes, buildDiscountCode(discount, code, actorID, now))
			}
			needUpdate = true
		}
		if !needUpdate {
			return nil
		}
		return st.Discounts.UpdateDiscount(ctx, discount)
	})
	if err != nil {
		return nil, AsError(err)
	}

	s.log.WithFields(logrus.Fields{
		"discountId": discount.ID,
		"name":       discount.Name,
		"codes":      len(discount.Codes),
	}).Info("discount created")
	return discount, nil
}

// AddDiscountCode issues one more code for an existing discount.
func (s *DiscountService) AddDiscountCode(ctx context.Context, discountID uuid.UUID, req models.AddDiscountCodeRequest) (created *models.DiscountCode, opErr *Error) {
	defer s.recoverTo("AddDiscountCode", &opErr)

	actorID, gateErr := s.gate.ResolveActingUser(ctx, models.RoleManager)
	if gateErr != nil {
		return nil, gateErr
	}

	if !discountCodeFormat.MatchString(strings.TrimSpace(req.Code)) {
		return nil, NewError(CodeInvalidDiscountCode, "code must be 4-20 alphanumeric characters")
	}

	err := s.uow.Do(ctx, func(st Stores) error {
		discount, err := st.Discounts.GetDiscountByID(ctx, discountID)
		if err != nil {
			return err
		}
		if discount == nil || discount.Status == models.DiscountStatusDeleted {
			return NewError(CodeDiscountNotFound, "discount not found")
		}

		if req.UserID != nil {
			user, err := st.Users.GetUserByID(ctx, *req.UserID)
			if err != nil {
				return err
			}
			if user == nil || user.Status == models.UserStatusDeleted {
				return NewError(CodeUserNotFound, "restricting user not found")
			}
		}

		if req.FromDate != nil || req.ToDate != nil {
			if req.FromDate != nil && req.ToDate != nil && req.FromDate.After(*req.ToDate) {
				return NewError(CodeInvalidDate, "fromDate must not be after toDate")
			}
			if req.FromDate != nil && req.FromDate.Before(startOfToday()) {
				return NewError(CodeInvalidDate, "fromDate must not be in the past")
			}
			if (req.FromDate != nil && req.FromDate.Before(discount.FromDate)) ||
				(req.ToDate != nil && req.ToDate.After(discount.ToDate)) {
				return NewError(CodeInvalidDate, "code window must lie within the discount window")
			}
		}

		taken, err := st.Discounts.GetDiscountCodeByCode(ctx, NormalizeCode(req.Code))
		if err != nil {
			return err
		}
		if taken != nil {
			return NewError(CodeDiscountCodeAlreadyExists, "discount code already exists")
		}

		created = buildDiscountCode(discount, req, actorID, time.Now())
		return st.Discounts.CreateDiscountCode(ctx, created)
	})
	if err != nil {
		return nil, AsError(err)
	}

	s.log.WithFields(logrus.Fields{
		"discountId": discountID,
		"code":       created.Code,
	}).Info("discount code created")
	return created, nil
}

// GetDiscountCodeByCode looks a code up under its normalized form. The
// returned status is derived from the code's window: outside [FromDate,
// ToDate] the code reads Inactive regardless of the stored value.
func (s *DiscountService) GetDiscountCodeByCode(ctx context.Context, code string) (found *models.DiscountCode, opErr *Error) {
	defer s.recoverTo("GetDiscountCodeByCode", &opErr)

	err := s.uow.Do(ctx, func(st Stores) error {
		var err error
		found, err = st.Discounts.GetDiscountCodeByCode(ctx, NormalizeCode(code))
		return err
	})
	if err != nil {
		return nil, AsError(err)
	}
	if found == nil {
		return nil, NewError(CodeDiscountNotFound, "discount code not found")
	}
	if now := time.Now(); now.Before(found.FromDate) || now.After(found.ToDate) {
		found.Status = models.DiscountCodeStatusInactive
	}
	return found, nil
}

func buildDiscountCode(discount *models.Discount, req models.AddDiscountCodeRequest, actorID uuid.UUID, now time.Time) *models.DiscountCode {
	fromDate := startOfToday()
	if req.FromDate != nil {
		fromDate = *req.FromDate
	}
	toDate := discount.ToDate
	if req.ToDate != nil {
		toDate = *req.ToDate
	}
	status := models.DiscountCodeStatusActive
	if req.Status != nil && *req.Status == models.DiscountCodeStatusInactive {
		status = models.DiscountCodeStatusInactive
	}
	return &models.DiscountCode{
		ID:          uuid.New(),
		DiscountID:  discount.ID,
		UserID:      req.UserID,
		Code:        NormalizeCode(req.Code),
		FromDate:    fromDate,
		ToDate:      toDate,
		Status:      status,
		CreatedAt:   now,
		CreatedByID: &actorID,
	}
}

// startOfToday is the "not in the past" boundary; windows are date-granular
// so a fromDate of today is valid at any time of day.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *DiscountService) recoverTo(op string, opErr **Error) {
	if r := recover(); r != nil {
		s.log.WithField("op", op).Errorf("recovered: %v", r)
		*opErr = Internal(fmt.Errorf("panic in %s: %v", op, r))
	}
}
