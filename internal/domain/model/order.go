package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// 終端ステータスか
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// TotalPriceは作成時に確定し、以後再計算しない
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index" json:"userId"`
	DiscountID *int64          `gorm:"index" json:"discountId,omitempty"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	City       string          `gorm:"type:varchar(100);not null" json:"city"`
	Street     string          `gorm:"type:varchar(255);not null" json:"street"`
	Number     string          `gorm:"type:varchar(20);not null" json:"number"`
	PostalCode string          `gorm:"type:varchar(20);not null" json:"postalCode"`
	Items      []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"orderItems,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
