package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"football-store/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Team     string
	Licensed *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string // price_asc / price_desc / new / ""
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
