package auth

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"football-store/internal/repository"
	"football-store/internal/validator"
)

// 本人のemail/パスワード変更。nilの項目は変えない
type UpdateProfileInput struct {
	Email    *string
	Password *string
}

type UpdateProfileUsecase struct {
	tx     repository.TransactionManager
	hasher PasswordHasher
}

func NewUpdateProfileUsecase(tx repository.TransactionManager, hasher PasswordHasher) *UpdateProfileUsecase {
	return &UpdateProfileUsecase{tx: tx, hasher: hasher}
}

// 発行済みトークンはそのまま使える（token_versionは上げない）
func (u *UpdateProfileUsecase) Execute(ctx context.Context, userID int64, in UpdateProfileInput) (StatusOutput, error) {
	if userID <= 0 {
		return StatusOutput{}, ErrUnauthorized
	}

	var email string
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
		if err := validator.Email(email); err != nil {
			return StatusOutput{}, ErrInvalidEmailFormat
		}
	}

	var hashed string
	if in.Password != nil {
		if err := validator.Password(*in.Password); err != nil {
			return StatusOutput{}, err
		}
		h, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return StatusOutput{}, errors.Wrap(err, "hash password")
		}
		hashed = h
	}

	var out StatusOutput
	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUnauthorized
			}
			return errors.Wrap(err, "find user")
		}

		if in.Email != nil {
			if !strings.EqualFold(email, user.Email) {
				if _, err := r.Users().FindByEmail(ctx, email); err == nil {
					return ErrEmailAlreadyExists
				} else if !errors.Is(err, repository.ErrNotFound) {
					return errors.Wrap(err, "find user")
				}
			}
			user.Email = email
		}
		if hashed != "" {
			user.PasswordHash = hashed
		}

		if err := r.Users().Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailAlreadyExists
			}
			return errors.Wrap(err, "update user")
		}

		out = StatusOutput{ID: user.ID, Email: user.Email, Role: user.Role}
		return nil
	})
	if err != nil {
		return StatusOutput{}, err
	}
	return out, nil
}
