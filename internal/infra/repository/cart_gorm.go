package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// user_idはunique（1ユーザー1カート）
func (r *CartGormRepository) Create(ctx context.Context, cart *model.Cart) error {
	return translateErr(r.db.WithContext(ctx).Create(cart).Error)
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).First(&cart, cartID).Error; err != nil {
		return model.Cart{}, translateErr(err)
	}
	return cart, nil
}

func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translateErr(err)
	}
	return cart, nil
}

// SELECT ... FOR UPDATE
// Tx内で呼ぶこと（commit/rollbackまでロックが続く）
func (r *CartGormRepository) LockByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translateErr(err)
	}
	return cart, nil
}

// carts.total_priceを更新
func (r *CartGormRepository) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total_price", total)
	return checkAffected(res)
}

func (r *CartGormRepository) Delete(ctx context.Context, cartID int64) error {
	return checkAffected(r.db.WithContext(ctx).Delete(&model.Cart{}, cartID))
}

var _ repo.CartRepository = (*CartGormRepository)(nil)
