package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	"football-store/internal/domain/pricing"
	repo "football-store/internal/repository"
	"football-store/internal/validator"
)

// CartUsecase はカートと明細の更新を行う。
// 更新はすべてTx内でカート行をロックしてから行い、最後に合計を明細から再計算する。
type CartUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewCartUsecase(tx repo.TransactionManager, log *zap.Logger) *CartUsecase {
	return &CartUsecase{tx: tx, log: log}
}

type AddCartItemInput struct {
	CartID    int64
	ProductID int64
	Size      string
	Quantity  int64
	Player    string
	Number    string
}

type CartOutput struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userId"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
	Items      []model.CartItem `json:"cartItems"`
}

// 明細を追加して合計を更新
func (u *CartUsecase) AddItem(ctx context.Context, actor Actor, in AddCartItemInput) (model.CartItem, error) {
	if err := requireActor(actor); err != nil {
		return model.CartItem{}, err
	}
	if in.CartID <= 0 {
		return model.CartItem{}, validation("invalid cartId")
	}
	if in.ProductID <= 0 {
		return model.CartItem{}, validation("invalid productId")
	}
	size, err := validator.CartItem(in.Size, in.Quantity, in.Player, in.Number)
	if err != nil {
		return model.CartItem{}, validation(err.Error())
	}

	var out model.CartItem
	var total decimal.Decimal

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().LockByID(ctx, in.CartID)
		if err != nil {
			return fromRepo(err, "cart", "lock cart")
		}
		//他人のカートは「存在しない扱い」
		if !actor.CanAccess(cart.UserID) {
			return notFound("cart")
		}

		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err != nil {
			return fromRepo(err, "product", "find product")
		}

		item := model.CartItem{
			CartID:    cart.ID,
			ProductID: p.ID,
			Size:      size,
			Quantity:  in.Quantity,
			Player:    in.Player,
			Number:    in.Number,
			Price:     pricing.LinePrice(p.Price, in.Quantity),
		}
		if !pricing.FitsAmount(item.Price) {
			return validation("line price too large")
		}
		if err := r.CartItems().Create(ctx, &item); err != nil {
			return internal(err, "create cart item")
		}

		total, err = recalcCartTotal(ctx, r, cart.ID)
		if err != nil {
			return err
		}

		out = item
		return nil
	})
	if err != nil {
		return model.CartItem{}, err
	}

	u.log.Info("cart item added",
		zap.Int64("cart_id", out.CartID),
		zap.Int64("item_id", out.ID),
		zap.Stringer("cart_total", total),
	)
	return out, nil
}

// 数量を変えて価格を今の商品価格で付け直す
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, actor Actor, itemID int64, quantity int64) (model.CartItem, error) {
	if err := requireActor(actor); err != nil {
		return model.CartItem{}, err
	}
	if itemID <= 0 {
		return model.CartItem{}, validation("invalid id")
	}
	if err := validator.Quantity(quantity); err != nil {
		return model.CartItem{}, validation(err.Error())
	}

	var out model.CartItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := lockItemCart(ctx, r, actor, itemID)
		if err != nil {
			return err
		}

		p, err := r.Products().FindByID(ctx, item.ProductID)
		if err != nil {
			return fromRepo(err, "product", "find product")
		}

		item.Quantity = quantity
		item.Price = pricing.LinePrice(p.Price, quantity)
		if !pricing.FitsAmount(item.Price) {
			return validation("line price too large")
		}
		if err := r.CartItems().Update(ctx, &item); err != nil {
			return fromRepo(err, "cart item", "update cart item")
		}

		if _, err := recalcCartTotal(ctx, r, item.CartID); err != nil {
			return err
		}

		out = item
		return nil
	})
	if err != nil {
		return model.CartItem{}, err
	}
	return out, nil
}

// 明細削除。無い明細はNotFound
func (u *CartUsecase) RemoveItem(ctx context.Context, actor Actor, itemID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if itemID <= 0 {
		return validation("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := lockItemCart(ctx, r, actor, itemID)
		if err != nil {
			return err
		}

		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return fromRepo(err, "cart item", "delete cart item")
		}

		_, err = recalcCartTotal(ctx, r, item.CartID)
		return err
	})
}

func (u *CartUsecase) GetCart(ctx context.Context, actor Actor, cartID int64) (CartOutput, error) {
	if err := requireActor(actor); err != nil {
		return CartOutput{}, err
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByID(ctx, cartID)
		if err != nil {
			return fromRepo(err, "cart", "find cart")
		}
		if !actor.CanAccess(cart.UserID) {
			return notFound("cart")
		}
		out, err = buildCartOutput(ctx, r, cart)
		return err
	})
	return out, err
}

// ログイン中ユーザーのカート
func (u *CartUsecase) GetMyCart(ctx context.Context, actor Actor) (CartOutput, error) {
	return u.GetCartByUser(ctx, actor, actor.UserID)
}

// ユーザーIDからカートを引く。他人のカートは管理者のみ
func (u *CartUsecase) GetCartByUser(ctx context.Context, actor Actor, userID int64) (CartOutput, error) {
	if err := requireActor(actor); err != nil {
		return CartOutput{}, err
	}
	if userID <= 0 {
		return CartOutput{}, validation("invalid user id")
	}
	if !actor.CanAccess(userID) {
		return CartOutput{}, notFound("cart")
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err != nil {
			return fromRepo(err, "cart", "find cart")
		}
		out, err = buildCartOutput(ctx, r, cart)
		return err
	})
	return out, err
}

// 明細を取得し、そのカートをロックしてから読み直す
func lockItemCart(ctx context.Context, r repo.TxRepos, actor Actor, itemID int64) (model.CartItem, error) {
	item, err := r.CartItems().FindByID(ctx, itemID)
	if err != nil {
		return model.CartItem{}, fromRepo(err, "cart item", "find cart item")
	}

	cart, err := r.Carts().LockByID(ctx, item.CartID)
	if err != nil {
		return model.CartItem{}, fromRepo(err, "cart item", "lock cart")
	}
	if !actor.CanAccess(cart.UserID) {
		return model.CartItem{}, notFound("cart item")
	}

	// ロック待ちの間に消されていないか
	item, err = r.CartItems().FindByID(ctx, itemID)
	if err != nil {
		return model.CartItem{}, fromRepo(err, "cart item", "find cart item")
	}
	return item, nil
}

// 明細を全部読み直して合計を書き戻す
func recalcCartTotal(ctx context.Context, r repo.TxRepos, cartID int64) (decimal.Decimal, error) {
	items, err := r.CartItems().ListByCartID(ctx, cartID)
	if err != nil {
		return decimal.Zero, internal(err, "list cart items")
	}

	total := pricing.CartSubtotal(items)
	if !pricing.FitsAmount(total) {
		return decimal.Zero, validation("cart total too large")
	}
	if err := r.Carts().UpdateTotal(ctx, cartID, total); err != nil {
		return decimal.Zero, fromRepo(err, "cart", "update cart total")
	}
	return total, nil
}

func buildCartOutput(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartOutput, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, internal(err, "list cart items")
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return CartOutput{
		ID:         cart.ID,
		UserID:     cart.UserID,
		TotalPrice: cart.TotalPrice,
		Items:      items,
	}, nil
}
