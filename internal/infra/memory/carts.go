package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type cartRepo struct{ *txRepos }

func (r *cartRepo) Create(ctx context.Context, cart *model.Cart) error {
	for _, c := range r.st.carts {
		if c.UserID == cart.UserID {
			return repo.ErrDuplicate
		}
	}
	now := r.now()
	cart.ID = r.st.nextID()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	stored := *cart
	stored.Items = nil
	r.st.carts[cart.ID] = stored
	return nil
}

func (r *cartRepo) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	c, ok := r.st.carts[cartID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *cartRepo) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	for _, c := range r.st.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	return model.Cart{}, repo.ErrNotFound
}

// Txが直列なのでロックは不要
func (r *cartRepo) LockByID(ctx context.Context, cartID int64) (model.Cart, error) {
	return r.FindByID(ctx, cartID)
}

func (r *cartRepo) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	c, ok := r.st.carts[cartID]
	if !ok {
		return repo.ErrNotFound
	}
	c.TotalPrice = total
	c.UpdatedAt = r.now()
	r.st.carts[cartID] = c
	return nil
}

func (r *cartRepo) Delete(ctx context.Context, cartID int64) error {
	if _, ok := r.st.carts[cartID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.carts, cartID)
	for id, it := range r.st.cartItems {
		if it.CartID == cartID {
			delete(r.st.cartItems, id)
		}
	}
	return nil
}

type cartItemRepo struct{ *txRepos }

func (r *cartItemRepo) Create(ctx context.Context, item *model.CartItem) error {
	if _, ok := r.st.carts[item.CartID]; !ok {
		return repo.ErrNotFound
	}
	now := r.now()
	item.ID = r.st.nextID()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.st.cartItems[item.ID] = *item
	return nil
}

func (r *cartItemRepo) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	it, ok := r.st.cartItems[cartItemID]
	if !ok {
		return model.CartItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (r *cartItemRepo) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	return sortedValues(r.st.cartItems, func(it model.CartItem) bool {
		return it.CartID == cartID
	}), nil
}

func (r *cartItemRepo) Update(ctx context.Context, item *model.CartItem) error {
	cur, ok := r.st.cartItems[item.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Quantity = item.Quantity
	cur.Price = item.Price
	cur.UpdatedAt = r.now()
	r.st.cartItems[item.ID] = cur
	return nil
}

func (r *cartItemRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	if _, ok := r.st.cartItems[cartItemID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.cartItems, cartItemID)
	return nil
}

func (r *cartItemRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.st.cartItems[id]; ok {
			delete(r.st.cartItems, id)
			n++
		}
	}
	return n, nil
}
