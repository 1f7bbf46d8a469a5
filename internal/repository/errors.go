package repository

import "github.com/go-faster/errors"

var (
	// 対象の行が無い
	ErrNotFound = errors.New("not found")
	// 一意制約違反
	ErrDuplicate = errors.New("duplicate")
)
