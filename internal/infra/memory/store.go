// Package memory はDBなしで動く保存先。
// Txは1つずつ直列に実行し、状態のコピーに書き込んでから成功時だけ差し替える。
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type state struct {
	seq int64

	users       map[int64]model.User
	products    map[int64]model.Product
	inventory   map[int64]model.ProductInventory
	adjustments []model.InventoryAdjustment
	carts       map[int64]model.Cart
	cartItems   map[int64]model.CartItem
	discounts   map[int64]model.Discount
	orders      map[int64]model.Order
	orderItems  map[int64]model.OrderItem
	auditLogs   []model.AuditLog
}

func newState() *state {
	return &state{
		users:      map[int64]model.User{},
		products:   map[int64]model.Product{},
		inventory:  map[int64]model.ProductInventory{},
		carts:      map[int64]model.Cart{},
		cartItems:  map[int64]model.CartItem{},
		discounts:  map[int64]model.Discount{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		users:       cloneMap(s.users),
		products:    cloneMap(s.products),
		inventory:   cloneMap(s.inventory),
		adjustments: append([]model.InventoryAdjustment(nil), s.adjustments...),
		carts:       cloneMap(s.carts),
		cartItems:   cloneMap(s.cartItems),
		discounts:   cloneMap(s.discounts),
		orders:      cloneMap(s.orders),
		orderItems:  cloneMap(s.orderItems),
		auditLogs:   append([]model.AuditLog(nil), s.auditLogs...),
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	c := make(map[int64]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// id昇順で値を返す
func sortedValues[V any](m map[int64]V, keep func(V) bool) []V {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// fnがerrorを返したら何も残さない
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(newTxRepos(work, s.now)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st = work
	return nil
}

// Tx外で使うユーザー参照（middlewareなど）
func (s *Store) Users() repo.UserRepository {
	return &lockedUsers{s: s}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type txRepos struct {
	st  *state
	now func() time.Time
}

func newTxRepos(st *state, now func() time.Time) *txRepos {
	return &txRepos{st: st, now: now}
}

func (r *txRepos) Users() repo.UserRepository           { return &userRepo{r} }
func (r *txRepos) Products() repo.ProductRepository     { return &productRepo{r} }
func (r *txRepos) Inventory() repo.InventoryRepository  { return &inventoryRepo{r} }
func (r *txRepos) Carts() repo.CartRepository           { return &cartRepo{r} }
func (r *txRepos) CartItems() repo.CartItemRepository   { return &cartItemRepo{r} }
func (r *txRepos) Discounts() repo.DiscountRepository   { return &discountRepo{r} }
func (r *txRepos) Orders() repo.OrderRepository         { return &orderRepo{r} }
func (r *txRepos) OrderItems() repo.OrderItemRepository { return &orderItemRepo{r} }
func (r *txRepos) AuditLogs() repo.AuditLogRepository   { return &auditLogRepo{r} }

var _ repo.TransactionManager = (*Store)(nil)
