package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カート明細のコピー（注文時点の値をそのまま保持）
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"orderId"`
	ProductID int64           `gorm:"not null;index" json:"productId"`
	Size      Size            `gorm:"type:varchar(5);not null" json:"size"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Player    string          `gorm:"type:varchar(100)" json:"player"`
	Number    string          `gorm:"type:varchar(10)" json:"number"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}
