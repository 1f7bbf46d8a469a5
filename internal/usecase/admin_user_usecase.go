package usecase

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
	"football-store/internal/validator"
)

// 平文パスワードをハッシュにする
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type AdminUserUsecase struct {
	tx     repo.TransactionManager
	hasher PasswordHasher
	log    *zap.Logger
}

func NewAdminUserUsecase(tx repo.TransactionManager, hasher PasswordHasher, log *zap.Logger) *AdminUserUsecase {
	return &AdminUserUsecase{tx: tx, hasher: hasher, log: log}
}

type CreateUserInput struct {
	Email    string
	Password string
	// 空ならUSER
	Role string
}

// 管理者がユーザーを作る。会員登録と同じくカートも作る
func (u *AdminUserUsecase) Create(ctx context.Context, actor Actor, in CreateUserInput) (model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return model.User{}, err
	}

	email := strings.TrimSpace(in.Email)
	if err := validator.Email(email); err != nil {
		return model.User{}, validation(err.Error())
	}
	if err := validator.Password(in.Password); err != nil {
		return model.User{}, validation(err.Error())
	}
	role := model.RoleUser
	if r := strings.TrimSpace(in.Role); r != "" {
		parsed, ok := model.ParseRole(r)
		if !ok {
			return model.User{}, validation("invalid role")
		}
		role = parsed
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, internal(err, "hash password")
	}

	var out model.User

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByEmail(ctx, email); err == nil {
			return NewAppError(KindConflict, "email already registered")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return internal(err, "find user")
		}

		user := &model.User{
			Email:        email,
			PasswordHash: hashed,
			Role:         role,
			IsActive:     true,
		}
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewAppError(KindConflict, "email already registered")
			}
			return internal(err, "create user")
		}

		cart := &model.Cart{UserID: user.ID, TotalPrice: decimal.Zero}
		if err := r.Carts().Create(ctx, cart); err != nil {
			return internal(err, "create cart")
		}

		if err := writeAudit(ctx, r, actor.UserID,
			model.AuditActionCreateUser, model.AuditResourceUser, user.ID,
			nil,
			map[string]string{"email": user.Email, "role": string(user.Role)},
		); err != nil {
			return err
		}

		out = *user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	u.log.Info("user created by admin", zap.Int64("user_id", out.ID), zap.String("role", string(out.Role)))
	return out, nil
}

func (u *AdminUserUsecase) List(ctx context.Context, actor Actor) ([]model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var users []model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		users, err = r.Users().List(ctx)
		if err != nil {
			return internal(err, "list users")
		}
		return nil
	})
	return users, err
}

func (u *AdminUserUsecase) Get(ctx context.Context, actor Actor, userID int64) (model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return model.User{}, err
	}

	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return fromRepo(err, "user", "find user")
		}
		out = *user
		return nil
	})
	return out, err
}

// ロール変更。発行済みトークンは無効になる
func (u *AdminUserUsecase) UpdateRole(ctx context.Context, actor Actor, userID int64, role string) (model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return model.User{}, err
	}
	newRole, ok := model.ParseRole(strings.TrimSpace(role))
	if !ok {
		return model.User{}, validation("invalid role")
	}
	if userID == actor.UserID && newRole != model.RoleAdmin {
		return model.User{}, invalidState("cannot demote yourself")
	}

	var out model.User

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return fromRepo(err, "user", "find user")
		}
		before := user.Role
		if before == newRole {
			out = *user
			return nil
		}

		user.Role = newRole
		if err := r.Users().Update(ctx, user); err != nil {
			return fromRepo(err, "user", "update user")
		}
		if err := r.Users().IncrementTokenVersion(ctx, userID); err != nil {
			return fromRepo(err, "user", "bump token version")
		}

		if err := writeAudit(ctx, r, actor.UserID,
			model.AuditActionUpdateUserRole, model.AuditResourceUser, userID,
			map[string]string{"role": string(before)},
			map[string]string{"role": string(newRole)},
		); err != nil {
			return err
		}

		updated, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return fromRepo(err, "user", "find user")
		}
		out = *updated
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	u.log.Info("user role updated", zap.Int64("user_id", userID), zap.String("role", string(newRole)))
	return out, nil
}

// 注文があるユーザーは消せない。カートは明細ごと消す
func (u *AdminUserUsecase) Delete(ctx context.Context, actor Actor, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.UserID {
		return invalidState("cannot delete yourself")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return fromRepo(err, "user", "find user")
		}

		orders, err := r.Orders().List(ctx, repo.OrderListFilter{UserID: &userID})
		if err != nil {
			return internal(err, "list orders")
		}
		if len(orders) > 0 {
			return NewAppError(KindConflict, "user has orders")
		}

		cart, err := r.Carts().FindByUserID(ctx, userID)
		switch {
		case err == nil:
			if err := r.Carts().Delete(ctx, cart.ID); err != nil {
				return fromRepo(err, "cart", "delete cart")
			}
		case !errors.Is(err, repo.ErrNotFound):
			return internal(err, "find cart")
		}

		if err := r.Users().Delete(ctx, userID); err != nil {
			return fromRepo(err, "user", "delete user")
		}

		return writeAudit(ctx, r, actor.UserID,
			model.AuditActionDeleteUser, model.AuditResourceUser, userID,
			map[string]string{"email": user.Email, "role": string(user.Role)},
			nil,
		)
	})
}

type ForceLogoutOutput struct {
	UserID          int64 `json:"userId"`
	NewTokenVersion int   `json:"newTokenVersion"`
}

// 対象ユーザーの発行済みトークンを全部無効にする
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, actor Actor, userID int64) (ForceLogoutOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return ForceLogoutOutput{}, err
	}

	var out ForceLogoutOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().IncrementTokenVersion(ctx, userID); err != nil {
			return fromRepo(err, "user", "bump token version")
		}
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return fromRepo(err, "user", "find user")
		}
		out = ForceLogoutOutput{UserID: user.ID, NewTokenVersion: user.TokenVersion}
		return nil
	})
	return out, err
}
