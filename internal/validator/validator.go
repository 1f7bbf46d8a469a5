// Package validator は入力チェックをまとめる。DBは見ない。
package validator

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"football-store/internal/domain/model"
	"football-store/internal/domain/pricing"
)

// 入力が不正（Messageはそのままレスポンスに出す）
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// 必須で最大長以内
func requiredText(field, v string, max int) error {
	s := strings.TrimSpace(v)
	if s == "" {
		return invalid(field, "%s is required", field)
	}
	if len(s) > max {
		return invalid(field, "%s too long", field)
	}
	return nil
}

func optionalText(field, v string, max int) error {
	if len(strings.TrimSpace(v)) > max {
		return invalid(field, "%s too long", field)
	}
	return nil
}

// 配送先住所
func Address(city, street, number, postalCode string) error {
	if err := requiredText("city", city, 100); err != nil {
		return err
	}
	if err := requiredText("street", street, 255); err != nil {
		return err
	}
	if err := requiredText("number", number, 20); err != nil {
		return err
	}
	return requiredText("postalCode", postalCode, 20)
}

// 1明細あたりの最大数量
const MaxQuantity = 999

func Quantity(quantity int64) error {
	if quantity < 1 {
		return invalid("quantity", "quantity must be >= 1")
	}
	if quantity > MaxQuantity {
		return invalid("quantity", "quantity must be <= %d", MaxQuantity)
	}
	return nil
}

// カート明細の入力。サイズを返す
func CartItem(size string, quantity int64, player, number string) (model.Size, error) {
	sz, ok := model.ParseSize(size)
	if !ok {
		return "", invalid("size", "invalid size %q", size)
	}
	if err := Quantity(quantity); err != nil {
		return "", err
	}
	if err := optionalText("player", player, 100); err != nil {
		return "", err
	}
	if err := optionalText("number", number, 10); err != nil {
		return "", err
	}
	return sz, nil
}

// 割引コード。正規化したコードを返す
func Discount(code string, percentage int) (string, error) {
	c := strings.TrimSpace(code)
	if err := requiredText("code", c, 64); err != nil {
		return "", err
	}
	if percentage < 0 || percentage > 100 {
		return "", invalid("discountPercentage", "discountPercentage must be between 0 and 100")
	}
	return c, nil
}

func Product(name, description string, price decimal.Decimal, team string) error {
	if err := requiredText("name", name, 255); err != nil {
		return err
	}
	if err := optionalText("team", team, 100); err != nil {
		return err
	}
	if len(description) > 5000 {
		return invalid("description", "description too long")
	}
	if price.IsNegative() {
		return invalid("price", "price must be >= 0")
	}
	if !pricing.FitsAmount(price) {
		return invalid("price", "price too large")
	}
	if !price.Equal(price.Round(2)) {
		return invalid("price", "price must have at most 2 decimal places")
	}
	return nil
}

func Email(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return invalid("email", "email is required")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return invalid("email", "invalid email format")
	}
	return nil
}

// パスワードの最小文字数
const MinPasswordLength = 12

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrWeakPassword     = errors.New("weak password")
)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password1234":  {},
	"password12345": {},
	"123456789012":  {},
	"1234567890123": {},
	"qwertyuiop12":  {},
	"qwerty123456":  {},
	"letmein12345":  {},
	"admin1234567":  {},
	"football1234":  {},
	"iloveyou1234":  {},
}

// 長さと弱いパスワードのチェック。番兵エラーを返す
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if _, weak := weakPasswords[strings.ToLower(strings.TrimSpace(password))]; weak {
		return ErrWeakPassword
	}
	return nil
}
