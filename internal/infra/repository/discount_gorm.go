package repository

import (
	"context"

	"gorm.io/gorm"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type DiscountGormRepository struct {
	db *gorm.DB
}

func NewDiscountGormRepository(db *gorm.DB) *DiscountGormRepository {
	return &DiscountGormRepository{db: db}
}

// codeが重複ならErrDuplicate
func (r *DiscountGormRepository) Create(ctx context.Context, d *model.Discount) error {
	return translateErr(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DiscountGormRepository) FindByID(ctx context.Context, id int64) (model.Discount, error) {
	var d model.Discount
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return model.Discount{}, translateErr(err)
	}
	return d, nil
}

func (r *DiscountGormRepository) FindByCode(ctx context.Context, code string) (model.Discount, error) {
	var d model.Discount
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&d).Error; err != nil {
		return model.Discount{}, translateErr(err)
	}
	return d, nil
}

func (r *DiscountGormRepository) List(ctx context.Context) ([]model.Discount, error) {
	var ds []model.Discount
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ds).Error; err != nil {
		return []model.Discount{}, err
	}
	return ds, nil
}

func (r *DiscountGormRepository) Update(ctx context.Context, d *model.Discount) error {
	res := r.db.WithContext(ctx).Model(&model.Discount{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"code":                d.Code,
			"discount_percentage": d.DiscountPercentage,
			"active":              d.Active,
		})
	return checkAffected(res)
}

// ordersからの参照はnullにする
func (r *DiscountGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).
			Where("discount_id = ?", id).
			Update("discount_id", nil).Error; err != nil {
			return err
		}
		return checkAffected(tx.Delete(&model.Discount{}, id))
	})
}

// UPDATE ... WHERE active = true
// 同時に使われても更新できるのは1件だけ
func (r *DiscountGormRepository) DeactivateIfActive(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Discount{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

var _ repo.DiscountRepository = (*DiscountGormRepository)(nil)
