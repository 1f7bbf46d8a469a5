package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// Priceは追加/更新時点の 単価×数量 を保存する（商品価格が変わっても再計算しない）
type CartItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64           `gorm:"not null;index" json:"cartId"`
	ProductID int64           `gorm:"not null;index" json:"productId"`
	Size      Size            `gorm:"type:varchar(5);not null" json:"size"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Player    string          `gorm:"type:varchar(100)" json:"player"`
	Number    string          `gorm:"type:varchar(10)" json:"number"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
