package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

// 割引コードの一括取り込み（COPYで一時テーブルに入れてからINSERT）
type DiscountImporterPgx struct {
	pool *pgxpool.Pool
}

func NewDiscountImporterPgx(pool *pgxpool.Pool) *DiscountImporterPgx {
	return &DiscountImporterPgx{pool: pool}
}

func (i *DiscountImporterPgx) Import(ctx context.Context, discounts []model.Discount) (int64, error) {
	if len(discounts) == 0 {
		return 0, nil
	}

	tx, err := i.pool.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE discount_import (
		code text NOT NULL,
		discount_percentage integer NOT NULL,
		active boolean NOT NULL
	) ON COMMIT DROP`); err != nil {
		return 0, errors.Wrap(err, "create staging table")
	}

	src := pgx.CopyFromSlice(len(discounts), func(n int) ([]any, error) {
		d := discounts[n]
		return []any{d.Code, d.DiscountPercentage, d.Active}, nil
	})
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"discount_import"},
		[]string{"code", "discount_percentage", "active"},
		src,
	); err != nil {
		return 0, errors.Wrap(err, "copy")
	}

	// 既存コードと入力内の重複はスキップ
	tag, err := tx.Exec(ctx, `INSERT INTO discounts (code, discount_percentage, active, created_at, updated_at)
		SELECT DISTINCT ON (code) code, discount_percentage, active, now(), now()
		FROM discount_import
		ORDER BY code
		ON CONFLICT (code) DO NOTHING`)
	if err != nil {
		return 0, errors.Wrap(err, "insert")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit")
	}
	return tag.RowsAffected(), nil
}

var _ repo.DiscountImporter = (*DiscountImporterPgx)(nil)
