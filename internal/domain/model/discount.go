package model

import "time"

// 割引コード（1回使うと無効になる）
type Discount struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code               string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountPercentage int       `gorm:"not null" json:"discountPercentage"`
	Active             bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
