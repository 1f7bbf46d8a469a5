package repository

import (
	"context"

	"football-store/internal/domain/model"
)

type OrderItemRepository interface {
	// 作成した明細（id付き）を返す
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
