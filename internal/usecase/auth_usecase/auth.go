// Package auth は会員登録・ログイン・ログアウト・ログイン状態確認。
package auth

import (
	"time"

	"github.com/go-faster/errors"

	"football-store/internal/domain/model"
	"football-store/internal/validator"
)

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = validator.ErrPasswordTooShort
	ErrWeakPassword       = validator.ErrWeakPassword

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")

	// メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")

	// 停止済みユーザー
	ErrUserInactive = errors.New("user is inactive")

	// トークンのユーザーがいない
	ErrUnauthorized = errors.New("unauthorized")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// token 形
type JwtAccessToken struct {
	AccessToken  string `json:"accessToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenVersion int    `json:"tokenVersion"`
}
