package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"merchandising-service/internal/services"
)

// GormUnitOfWork runs a services callback inside one database transaction,
// handing it stores bound to that transaction. Any error returned from the
// callback rolls the whole write set back.
type GormUnitOfWork struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewGormUnitOfWork(db *gorm.DB, redisClient *redis.Client) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, redis: redisClient}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(s services.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(services.Stores{
			Catalog:   NewCatalogRepository(tx, u.redis),
			Discounts: NewDiscountRepository(tx),
			Users:     NewUserRepository(tx),
		})
	})
}
