package auth

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"football-store/internal/domain/model"
	"football-store/internal/repository"
	"football-store/internal/validator"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User   model.User `json:"user"`
	CartID int64      `json:"cartId"`
}

// RegisterUserUsecaseは会員登録の処理。ユーザーとカートを同じTxで作る。
type RegisterUserUsecase struct {
	tx     repository.TransactionManager
	hasher PasswordHasher
	clock  Clock
}

// DI
func NewRegisterUserUsecase(tx repository.TransactionManager, hasher PasswordHasher, clock Clock) *RegisterUserUsecase {
	return &RegisterUserUsecase{tx: tx, hasher: hasher, clock: clock}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	email := strings.TrimSpace(in.Email)
	if err := validator.Email(email); err != nil {
		return out, ErrInvalidEmailFormat
	}

	// password の長さ（最小12文字）と弱いパスワード
	if err := validator.Password(in.Password); err != nil {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, errors.Wrap(err, "hash password")
	}

	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		// email重複チェック
		if _, err := r.Users().FindByEmail(ctx, email); err == nil {
			return ErrEmailAlreadyExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return errors.Wrap(err, "find user")
		}

		user := &model.User{
			Email:        email,
			PasswordHash: hashed, // 平文は保存しない
			Role:         model.RoleUser,
			TokenVersion: 0,
			IsActive:     true,
		}
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailAlreadyExists
			}
			return errors.Wrap(err, "create user")
		}

		cart := &model.Cart{UserID: user.ID, TotalPrice: decimal.Zero}
		if err := r.Carts().Create(ctx, cart); err != nil {
			return errors.Wrap(err, "create cart")
		}

		out.User = *user
		out.CartID = cart.ID
		return nil
	})
	if err != nil {
		return RegisterUserOutput{}, err
	}

	return out, nil
}
