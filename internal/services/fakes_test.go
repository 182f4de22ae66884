package services

import (
	"context"

	"github.com/google/uuid"

	"merchandising-service/internal/models"
)

// fakeCatalogStore is an in-memory CatalogStore. Fetch methods hand back the
// stored pointer so services mutate the same aggregate the test inspects.
type fakeCatalogStore struct {
	products map[uuid.UUID]*models.Product
	saved    []*models.Product
	saveErr  error
}

func newFakeCatalogStore(products ...*models.Product) *fakeCatalogStore {
	s := &fakeCatalogStore{products: make(map[uuid.UUID]*models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeCatalogStore) GetProductForUpdate(_ context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products[id], nil
}

func (s *fakeCatalogStore) GetProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products[id], nil
}

func (s *fakeCatalogStore) SaveProduct(_ context.Context, product *models.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, product)
	return nil
}

// fakeDiscountStore is an in-memory DiscountStore keyed by id, name, and
// normalized code.
type fakeDiscountStore struct {
	byID         map[uuid.UUID]*models.Discount
	byName       map[string]*models.Discount
	codesByCode  map[string]*models.DiscountCode
	created      []*models.Discount
	updated      []*models.Discount
	createdCodes []*models.DiscountCode
}

func newFakeDiscountStore(discounts ...*models.Discount) *fakeDiscountStore {
	s := &fakeDiscountStore{
		byID:        make(map[uuid.UUID]*models.Discount),
		byName:      make(map[string]*models.Discount),
		codesByCode: make(map[string]*models.DiscountCode),
	}
	for _, d := range discounts {
		s.byID[d.ID] = d
		s.byName[d.Name] = d
		for _, c := range d.Codes {
			s.codesByCode[c.Code] = c
		}
	}
	return s
}

func (s *fakeDiscountStore) GetDiscountByID(_ context.Context, id uuid.UUID) (*models.Discount, error) {
	return s.byID[id], nil
}

func (s *fakeDiscountStore) GetDiscountByName(_ context.Context, name string) (*models.Discount, error) {
	return s.byName[name], nil
}

func (s *fakeDiscountStore) GetDiscountCodeByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	return s.codesByCode[code], nil
}

func (s *fakeDiscountStore) CreateDiscount(_ context.Context, discount *models.Discount) error {
	s.created = append(s.created, discount)
	s.byID[discount.ID] = discount
	s.byName[discount.Name] = discount
	return nil
}

func (s *fakeDiscountStore) UpdateDiscount(_ context.Context, discount *models.Discount) error {
	s.updated = append(s.updated, discount)
	return nil
}

func (s *fakeDiscountStore) CreateDiscountCode(_ context.Context, code *models.DiscountCode) error {
	s.createdCodes = append(s.createdCodes, code)
	s.codesByCode[code.Code] = code
	return nil
}

// fakeUserStore resolves users from a map.
type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return s.users[id], nil
}

// fakeUnitOfWork runs the callback against fixed stores with no transaction.
type fakeUnitOfWork struct {
	stores Stores
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(s Stores) error) error {
	return fn(u.stores)
}

// fakeGate resolves to a fixed actor, or fails with a fixed error.
type fakeGate struct {
	actorID uuid.UUID
	err     *Error
}

func (g *fakeGate) ResolveActingUser(_ context.Context, _ models.UserRole) (uuid.UUID, *Error) {
	if g.err != nil {
		return uuid.Nil, g.err
	}
	return g.actorID, nil
}
