package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1ユーザーにつき1つ
// TotalPriceは明細のPriceの合計と常に一致させる
type Cart struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;uniqueIndex" json:"userId"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"totalPrice"`
	Items      []CartItem      `gorm:"constraint:OnDelete:CASCADE" json:"cartItems,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
