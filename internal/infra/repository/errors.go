package repository

import (
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	repo "football-store/internal/repository"
)

// unique_violation
const pgUniqueViolation = "23505"

// gorm/pgxのエラーをrepositoryのエラーにそろえる
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.Wrap(repo.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// 0件更新は「対象がない」
func checkAffected(res *gorm.DB) error {
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
