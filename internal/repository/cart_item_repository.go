package repository

import (
	"context"

	"football-store/internal/domain/model"
)

type CartItemRepository interface {
	Create(ctx context.Context, item *model.CartItem) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	// id昇順
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 数量と価格を更新
	Update(ctx context.Context, item *model.CartItem) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	// 指定したidだけ削除（カート単位の一括削除はしない）
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}
