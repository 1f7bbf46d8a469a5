package repository

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

// S→XXLの順
const sizeOrder = "CASE size WHEN 'S' THEN 1 WHEN 'M' THEN 2 WHEN 'L' THEN 3 WHEN 'XL' THEN 4 WHEN 'XXL' THEN 5 ELSE 6 END"

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductInventory, error) {
	var rows []model.ProductInventory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(sizeOrder).
		Find(&rows).Error; err != nil {
		return []model.ProductInventory{}, err
	}
	return rows, nil
}

func (r *InventoryGormRepository) FindByProductAndSize(ctx context.Context, productID int64, size model.Size) (model.ProductInventory, error) {
	var row model.ProductInventory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND size = ?", productID, size).
		First(&row).Error
	if err != nil {
		return model.ProductInventory{}, translateErr(err)
	}
	return row, nil
}

// 在庫の現在値を設定
func (r *InventoryGormRepository) SetQuantity(ctx context.Context, productID int64, size model.Size, quantity int64) (int64, error) {
	var current model.ProductInventory

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND size = ?", productID, size).
		First(&current).Error
	err = translateErr(err)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return 0, err
	}

	// 無ければ作る
	if err != nil {
		row := model.ProductInventory{ProductID: productID, Size: size, Quantity: quantity}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return 0, translateErr(err)
		}
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.ProductInventory{}).
		Where("id = ?", current.ID).
		Update("quantity", quantity)
	if err := checkAffected(res); err != nil {
		return 0, err
	}
	return current.Quantity, nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return translateErr(r.db.WithContext(ctx).Create(&adj).Error)
}
