package model

import "time"

// サイズ別の在庫
type ProductInventory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_inventory_product_size" json:"productId"`
	Size      Size      `gorm:"type:varchar(5);not null;uniqueIndex:idx_inventory_product_size" json:"size"`
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
