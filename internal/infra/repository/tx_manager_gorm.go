package repository

import (
	"context"

	"gorm.io/gorm"

	repo "football-store/internal/repository"
)

type txReposGorm struct {
	users      repo.UserRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	discounts  repo.DiscountRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Users() repo.UserRepository           { return r.users }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposGorm) Carts() repo.CartRepository           { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *txReposGorm) Discounts() repo.DiscountRepository   { return r.discounts }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

func newTxReposGorm(db *gorm.DB) *txReposGorm {
	return &txReposGorm{
		users:      NewUserGormRepository(db),
		products:   NewProductGormRepository(db),
		inventory:  NewInventoryGormRepository(db),
		carts:      NewCartGormRepository(db),
		cartItems:  NewCartItemGormRepository(db),
		discounts:  NewDiscountGormRepository(db),
		orders:     NewOrderGormRepository(db),
		orderItems: NewOrderItemGormRepository(db),
		auditLogs:  NewAuditLogGormRepository(db),
	}
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(newTxReposGorm(tx))
	})
}

var _ repo.TransactionManager = (*TxManagerGorm)(nil)
