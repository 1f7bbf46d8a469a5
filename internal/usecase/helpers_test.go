package usecase_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	"football-store/internal/infra/memory"
	repo "football-store/internal/repository"
	"football-store/internal/usecase"
)

// =====================
// fixture
// =====================

var nopLog = zap.NewNop()

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ハッシュの代わりに接頭辞を付けるだけ
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func asUser(u model.User) usecase.Actor {
	return usecase.Actor{UserID: u.ID, Role: u.Role}
}

// ユーザーとカートを作る
func seedUser(t *testing.T, store *memory.Store, email string, role model.Role) (model.User, model.Cart) {
	t.Helper()

	var user model.User
	var cart model.Cart
	err := store.WithinTx(context.Background(), func(r repo.TxRepos) error {
		u := &model.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
		if err := r.Users().Create(context.Background(), u); err != nil {
			return err
		}
		c := &model.Cart{UserID: u.ID, TotalPrice: decimal.Zero}
		if err := r.Carts().Create(context.Background(), c); err != nil {
			return err
		}
		user, cart = *u, *c
		return nil
	})
	require.NoError(t, err)
	return user, cart
}

func seedProduct(t *testing.T, store *memory.Store, name string, price string) model.Product {
	t.Helper()

	var p model.Product
	err := store.WithinTx(context.Background(), func(r repo.TxRepos) error {
		var err error
		p, err = r.Products().Create(context.Background(), model.Product{
			Name:  name,
			Price: dec(price),
			Team:  "FC Test",
		})
		return err
	})
	require.NoError(t, err)
	return p
}

func seedDiscount(t *testing.T, store *memory.Store, code string, pct int, active bool) model.Discount {
	t.Helper()

	d := model.Discount{Code: code, DiscountPercentage: pct, Active: active}
	err := store.WithinTx(context.Background(), func(r repo.TxRepos) error {
		return r.Discounts().Create(context.Background(), &d)
	})
	require.NoError(t, err)
	return d
}

func addItem(t *testing.T, uc *usecase.CartUsecase, actor usecase.Actor, cartID, productID int64, qty int64) model.CartItem {
	t.Helper()

	item, err := uc.AddItem(context.Background(), actor, usecase.AddCartItemInput{
		CartID:    cartID,
		ProductID: productID,
		Size:      "M",
		Quantity:  qty,
	})
	require.NoError(t, err)
	return item
}

// Tx外から状態を読む
func readState[T any](t *testing.T, store *memory.Store, fn func(r repo.TxRepos) (T, error)) T {
	t.Helper()

	var out T
	err := store.WithinTx(context.Background(), func(r repo.TxRepos) error {
		var err error
		out, err = fn(r)
		return err
	})
	require.NoError(t, err)
	return out
}

func cartItems(t *testing.T, store *memory.Store, cartID int64) []model.CartItem {
	return readState(t, store, func(r repo.TxRepos) ([]model.CartItem, error) {
		return r.CartItems().ListByCartID(context.Background(), cartID)
	})
}

func cartTotal(t *testing.T, store *memory.Store, cartID int64) decimal.Decimal {
	c := readState(t, store, func(r repo.TxRepos) (model.Cart, error) {
		return r.Carts().FindByID(context.Background(), cartID)
	})
	return c.TotalPrice
}

func allOrders(t *testing.T, store *memory.Store) []model.Order {
	return readState(t, store, func(r repo.TxRepos) ([]model.Order, error) {
		return r.Orders().List(context.Background(), repo.OrderListFilter{})
	})
}

func discountByID(t *testing.T, store *memory.Store, id int64) model.Discount {
	return readState(t, store, func(r repo.TxRepos) (model.Discount, error) {
		return r.Discounts().FindByID(context.Background(), id)
	})
}

// =====================
// 失敗注入
// =====================

var errInjected = errors.New("injected failure")

type failPoint string

const (
	failOrderCreate      failPoint = "orders.create"
	failOrderItemsCreate failPoint = "orderItems.createBulk"
	failDiscountDeact    failPoint = "discounts.deactivate"
	failCartItemsDelete  failPoint = "cartItems.deleteByIDs"
	failCartTotalReset   failPoint = "carts.updateTotal"
	failAuditCreate      failPoint = "auditLogs.create"
)

// 指定した1か所だけ失敗させるTxManager
type faultyTx struct {
	inner repo.TransactionManager
	at    failPoint
}

func (f *faultyTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return f.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(&faultyRepos{TxRepos: r, at: f.at})
	})
}

type faultyRepos struct {
	repo.TxRepos
	at failPoint
}

func (r *faultyRepos) Orders() repo.OrderRepository {
	return &faultyOrders{OrderRepository: r.TxRepos.Orders(), on: r.at == failOrderCreate}
}

func (r *faultyRepos) OrderItems() repo.OrderItemRepository {
	return &faultyOrderItems{OrderItemRepository: r.TxRepos.OrderItems(), on: r.at == failOrderItemsCreate}
}

func (r *faultyRepos) Discounts() repo.DiscountRepository {
	return &faultyDiscounts{DiscountRepository: r.TxRepos.Discounts(), on: r.at == failDiscountDeact}
}

func (r *faultyRepos) CartItems() repo.CartItemRepository {
	return &faultyCartItems{CartItemRepository: r.TxRepos.CartItems(), on: r.at == failCartItemsDelete}
}

func (r *faultyRepos) Carts() repo.CartRepository {
	return &faultyCarts{CartRepository: r.TxRepos.Carts(), on: r.at == failCartTotalReset}
}

func (r *faultyRepos) AuditLogs() repo.AuditLogRepository {
	return &faultyAudit{AuditLogRepository: r.TxRepos.AuditLogs(), on: r.at == failAuditCreate}
}

type faultyOrders struct {
	repo.OrderRepository
	on bool
}

func (f *faultyOrders) Create(ctx context.Context, o *model.Order) error {
	if f.on {
		return errInjected
	}
	return f.OrderRepository.Create(ctx, o)
}

type faultyOrderItems struct {
	repo.OrderItemRepository
	on bool
}

func (f *faultyOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	if f.on {
		return nil, errInjected
	}
	return f.OrderItemRepository.CreateBulk(ctx, orderID, items)
}

type faultyDiscounts struct {
	repo.DiscountRepository
	on bool
}

func (f *faultyDiscounts) DeactivateIfActive(ctx context.Context, id int64) (bool, error) {
	if f.on {
		return false, errInjected
	}
	return f.DiscountRepository.DeactivateIfActive(ctx, id)
}

type faultyCartItems struct {
	repo.CartItemRepository
	on bool
}

func (f *faultyCartItems) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if f.on {
		return 0, errInjected
	}
	return f.CartItemRepository.DeleteByIDs(ctx, ids)
}

type faultyCarts struct {
	repo.CartRepository
	on bool
}

func (f *faultyCarts) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	if f.on {
		return errInjected
	}
	return f.CartRepository.UpdateTotal(ctx, cartID, total)
}

type faultyAudit struct {
	repo.AuditLogRepository
	on bool
}

func (f *faultyAudit) Create(ctx context.Context, l model.AuditLog) error {
	if f.on {
		return errInjected
	}
	return f.AuditLogRepository.Create(ctx, l)
}
