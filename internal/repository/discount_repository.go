package repository

import (
	"context"

	"football-store/internal/domain/model"
)

type DiscountRepository interface {
	Create(ctx context.Context, d *model.Discount) error
	FindByID(ctx context.Context, id int64) (model.Discount, error)
	FindByCode(ctx context.Context, code string) (model.Discount, error)
	List(ctx context.Context) ([]model.Discount, error)
	Update(ctx context.Context, d *model.Discount) error
	Delete(ctx context.Context, id int64) error

	// active=true のときだけ false にする。変えられたら true
	DeactivateIfActive(ctx context.Context, id int64) (bool, error)
}

// まとめて取り込む。既存コードはスキップして作成件数を返す
type DiscountImporter interface {
	Import(ctx context.Context, discounts []model.Discount) (int64, error)
}
