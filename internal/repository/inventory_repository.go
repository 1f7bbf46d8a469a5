package repository

import (
	"context"

	"football-store/internal/domain/model"
)

type InventoryRepository interface {
	// サイズ順で返す
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductInventory, error)
	FindByProductAndSize(ctx context.Context, productID int64, size model.Size) (model.ProductInventory, error)

	// 在庫の現在値を設定（無ければ作る）。変更前の数量を返す
	SetQuantity(ctx context.Context, productID int64, size model.Size, quantity int64) (int64, error)

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error
}
