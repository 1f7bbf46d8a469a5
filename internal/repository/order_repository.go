package repository

import (
	"context"

	"football-store/internal/domain/model"
)

// 一覧の絞り込み（UserIDがnilなら全件）
type OrderListFilter struct {
	UserID *int64
	Status *model.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 新しい順
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	// ステータスと住所だけ更新する（合計は触らない）
	UpdateStatusAndAddress(ctx context.Context, order model.Order) error
	Delete(ctx context.Context, orderID int64) error
}
