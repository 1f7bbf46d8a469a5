package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 明細はOrderItemRepositoryで作るのでassociationは保存しない
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translateErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	//status 絞り込み
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var orders []model.Order
	if err := q.Order("id desc").Find(&orders).Error; err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) UpdateStatusAndAddress(ctx context.Context, o model.Order) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":      o.Status,
			"city":        o.City,
			"street":      o.Street,
			"number":      o.Number,
			"postal_code": o.PostalCode,
		})
	return checkAffected(res)
}

// order_itemsはFKのcascadeで消える
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	return checkAffected(r.db.WithContext(ctx).Delete(&model.Order{}, orderID))
}

var _ repo.OrderRepository = (*OrderGormRepository)(nil)
