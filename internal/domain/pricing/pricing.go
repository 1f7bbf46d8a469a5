// Package pricing は金額計算をまとめる。すべて decimal で丸めずに計算し、
// 最後に確定する合計だけを2桁に丸める。
package pricing

import (
	"github.com/shopspring/decimal"

	"football-store/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// numeric(12,2) に入る最大額
var MaxAmount = decimal.RequireFromString("9999999999.99")

func FitsAmount(d decimal.Decimal) bool {
	return d.LessThanOrEqual(MaxAmount)
}

// 単価×数量
func LinePrice(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// カート明細の合計
func CartSubtotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total
}

// 割引後の合計と割引額を返す
// total = subtotal - subtotal*pct/100
func ApplyDiscount(subtotal decimal.Decimal, percentage int) (total decimal.Decimal, amount decimal.Decimal) {
	amount = subtotal.Mul(decimal.NewFromInt(int64(percentage))).Div(hundred)
	total = subtotal.Sub(amount).Round(2)
	return total, amount
}

func ValidPercentage(p int) bool {
	return p >= 0 && p <= 100
}
