package model

import "strings"

// ユニフォームのサイズ
type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// 表示順
var AllSizes = []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// 大文字小文字と前後空白は無視する
func ParseSize(s string) (Size, bool) {
	v := Size(strings.ToUpper(strings.TrimSpace(s)))
	for _, sz := range AllSizes {
		if sz == v {
			return v, true
		}
	}
	return "", false
}
