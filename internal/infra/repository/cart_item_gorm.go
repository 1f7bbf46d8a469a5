package repository

import (
	"context"

	"gorm.io/gorm"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

func (r *CartItemGormRepository) Create(ctx context.Context, item *model.CartItem) error {
	return translateErr(r.db.WithContext(ctx).Create(item).Error)
}

// 明細を取得
func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", cartItemID).First(&item).Error; err != nil {
		return model.CartItem{}, translateErr(err)
	}
	return item, nil
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 明細の数量と価格を更新
func (r *CartItemGormRepository) Update(ctx context.Context, item *model.CartItem) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	return checkAffected(res)
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	return checkAffected(r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID))
}

func (r *CartItemGormRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

var _ repo.CartItemRepository = (*CartItemGormRepository)(nil)
