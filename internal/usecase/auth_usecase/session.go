package auth

import (
	"context"

	"github.com/go-faster/errors"

	"football-store/internal/domain/model"
	"football-store/internal/repository"
)

// token_versionを上げて発行済みトークンを全部無効にする
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return errors.Wrap(err, "bump token version")
	}
	return nil
}

type StatusOutput struct {
	ID    int64      `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// ログイン中のユーザー
type StatusUsecase struct {
	userRepo repository.UserRepository
}

func NewStatusUsecase(userRepo repository.UserRepository) *StatusUsecase {
	return &StatusUsecase{userRepo: userRepo}
}

func (u *StatusUsecase) Execute(ctx context.Context, userID int64) (StatusOutput, error) {
	if userID <= 0 {
		return StatusOutput{}, ErrUnauthorized
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return StatusOutput{}, ErrUnauthorized
		}
		return StatusOutput{}, errors.Wrap(err, "find user")
	}
	return StatusOutput{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}
