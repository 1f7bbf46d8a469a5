package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"football-store/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 行ロックを取って取得（同じカートへの更新を直列にする）
	LockByID(ctx context.Context, cartID int64) (model.Cart, error)
	UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error
	// 明細はcascadeで消える
	Delete(ctx context.Context, cartID int64) error
}
