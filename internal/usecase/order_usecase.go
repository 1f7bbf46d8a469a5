package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	"football-store/internal/domain/pricing"
	repo "football-store/internal/repository"
	"football-store/internal/validator"
)

type OrderUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, log *zap.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, log: log}
}

type CreateOrderInput struct {
	// 0なら本人
	UserID     int64
	DiscountID *int64
	City       string
	Street     string
	Number     string
	PostalCode string
}

// nilの項目は変更しない
type UpdateOrderInput struct {
	Status     *string
	City       *string
	Street     *string
	Number     *string
	PostalCode *string
}

type OrderOutput struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"userId"`
	UserEmail    string            `json:"userEmail,omitempty"`
	DiscountID   *int64            `json:"discountId,omitempty"`
	DiscountCode string            `json:"discountCode,omitempty"`
	TotalPrice   decimal.Decimal   `json:"totalPrice"`
	Status       string            `json:"status"`
	City         string            `json:"city"`
	Street       string            `json:"street"`
	Number       string            `json:"number"`
	PostalCode   string            `json:"postalCode"`
	CreatedAt    time.Time         `json:"createdAt"`
	Items        []model.OrderItem `json:"orderItems"`
}

// CreateOrder はカートから注文を作る。
// 途中で失敗したら注文・明細・割引・カートのどれも変わらない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return OrderOutput{}, err
	}

	userID := in.UserID
	if userID == 0 {
		userID = actor.UserID
	}
	if !actor.CanAccess(userID) {
		return OrderOutput{}, NewAppError(KindForbidden, "cannot order for another user")
	}

	if err := validator.Address(in.City, in.Street, in.Number, in.PostalCode); err != nil {
		return OrderOutput{}, orderFailed(validation(err.Error()))
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = placeOrder(ctx, r, userID, in)
		return err
	})
	if err != nil {
		u.log.Warn("order creation failed", zap.Int64("user_id", userID), zap.Error(err))
		return OrderOutput{}, orderFailed(err)
	}

	u.log.Info("order created",
		zap.Int64("order_id", out.ID),
		zap.Int64("user_id", out.UserID),
		zap.Stringer("total_price", out.TotalPrice),
		zap.Int("items", len(out.Items)),
	)
	return out, nil
}

func placeOrder(ctx context.Context, r repo.TxRepos, userID int64, in CreateOrderInput) (OrderOutput, error) {
	user, err := r.Users().FindByID(ctx, userID)
	if err != nil {
		return OrderOutput{}, fromRepo(err, "user", "find user")
	}

	cart, err := r.Carts().FindByUserID(ctx, userID)
	if err != nil {
		return OrderOutput{}, fromRepo(err, "cart", "find cart")
	}
	// 同じカートの注文/更新はここで直列になる
	cart, err = r.Carts().LockByID(ctx, cart.ID)
	if err != nil {
		return OrderOutput{}, fromRepo(err, "cart", "lock cart")
	}

	//スナップショット（以降はこのリストだけを使う）
	snapshot, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return OrderOutput{}, internal(err, "list cart items")
	}
	if len(snapshot) == 0 {
		return OrderOutput{}, invalidState("cart is empty")
	}

	subtotal := pricing.CartSubtotal(snapshot)
	total := subtotal

	var discount *model.Discount
	if in.DiscountID != nil {
		d, err := r.Discounts().FindByID(ctx, *in.DiscountID)
		if err != nil {
			return OrderOutput{}, fromRepo(err, "discount", "find discount")
		}
		if !d.Active {
			return OrderOutput{}, invalidState("discount no longer valid")
		}
		total, _ = pricing.ApplyDiscount(subtotal, d.DiscountPercentage)
		discount = &d
	}

	// 注文作成
	order := model.Order{
		UserID:     userID,
		TotalPrice: total,
		Status:     model.OrderStatusPending,
		City:       strings.TrimSpace(in.City),
		Street:     strings.TrimSpace(in.Street),
		Number:     strings.TrimSpace(in.Number),
		PostalCode: strings.TrimSpace(in.PostalCode),
	}
	if discount != nil {
		id := discount.ID
		order.DiscountID = &id
	}
	if err := r.Orders().Create(ctx, &order); err != nil {
		return OrderOutput{}, internal(err, "create order")
	}

	// 明細はカート明細のコピー（価格は再計算しない）
	rows := make([]model.OrderItem, 0, len(snapshot))
	for _, ci := range snapshot {
		rows = append(rows, model.OrderItem{
			ProductID: ci.ProductID,
			Size:      ci.Size,
			Quantity:  ci.Quantity,
			Player:    ci.Player,
			Number:    ci.Number,
			Price:     ci.Price,
		})
	}
	items, err := r.OrderItems().CreateBulk(ctx, order.ID, rows)
	if err != nil {
		return OrderOutput{}, internal(err, "create order items")
	}

	discountCode := ""
	if discount != nil {
		if _, err := markDiscountUsed(ctx, r, discount.ID, true); err != nil {
			return OrderOutput{}, err
		}
		discountCode = discount.Code
	}

	// スナップショットの明細だけ消す
	ids := make([]int64, 0, len(snapshot))
	for _, ci := range snapshot {
		ids = append(ids, ci.ID)
	}
	if _, err := r.CartItems().DeleteByIDs(ctx, ids); err != nil {
		return OrderOutput{}, internal(err, "delete cart items")
	}

	if err := r.Carts().UpdateTotal(ctx, cart.ID, decimal.Zero); err != nil {
		return OrderOutput{}, fromRepo(err, "cart", "reset cart total")
	}

	return toOrderOutput(order, items, user.Email, discountCode), nil
}

// "Error creating order: <原因>" にまとめる
func orderFailed(cause error) error {
	msg := cause.Error()
	if ae, ok := AsAppError(cause); ok {
		msg = ae.Message
		// 内部エラーは失敗した処理名と原因をそのまま返す
		if ae.Kind == KindInternal && ae.Err != nil {
			msg = ae.Err.Error()
		}
	}
	return &AppError{
		Kind:    KindOrderCreationFailed,
		Message: "Error creating order: " + msg,
		Err:     cause,
	}
}

func (u *OrderUsecase) Get(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, validation("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, "order", "find order")
		}
		//他人の注文は「存在しない扱い」にする
		if !actor.CanAccess(o.UserID) {
			return notFound("order")
		}

		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 管理者は全件、それ以外は自分の注文だけ
func (u *OrderUsecase) List(ctx context.Context, actor Actor, status string) ([]OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	f := repo.OrderListFilter{}
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.UserID = &uid
	}
	if status != "" {
		st, ok := model.ParseOrderStatus(status)
		if !ok {
			return nil, validation("invalid status")
		}
		f.Status = &st
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, f)
		if err != nil {
			return internal(err, "list orders")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := loadOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// ステータス（管理者のみ）と住所（PENDINGのみ）の部分更新
func (u *OrderUsecase) Update(ctx context.Context, actor Actor, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	if err := requireActor(actor); err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, validation("invalid id")
	}

	var newStatus model.OrderStatus
	if in.Status != nil {
		if !actor.IsAdmin() {
			return OrderOutput{}, NewAppError(KindForbidden, "only admin can change status")
		}
		st, ok := model.ParseOrderStatus(strings.TrimSpace(*in.Status))
		if !ok {
			return OrderOutput{}, validation("invalid status")
		}
		newStatus = st
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, "order", "find order")
		}
		if !actor.CanAccess(o.UserID) {
			return notFound("order")
		}
		before := o

		if in.City != nil || in.Street != nil || in.Number != nil || in.PostalCode != nil {
			if o.Status != model.OrderStatusPending {
				return invalidState("address can only be changed while order is PENDING")
			}
			o.City = pick(in.City, o.City)
			o.Street = pick(in.Street, o.Street)
			o.Number = pick(in.Number, o.Number)
			o.PostalCode = pick(in.PostalCode, o.PostalCode)
			if err := validator.Address(o.City, o.Street, o.Number, o.PostalCode); err != nil {
				return validation(err.Error())
			}
		}

		statusChanged := false
		if in.Status != nil && newStatus != before.Status {
			// 終端ガード
			if before.Status.IsTerminal() {
				return invalidState("cannot change " + strings.ToLower(string(before.Status)) + " order")
			}
			o.Status = newStatus
			statusChanged = true
		}

		if err := r.Orders().UpdateStatusAndAddress(ctx, o); err != nil {
			return fromRepo(err, "order", "update order")
		}

		if statusChanged {
			if err := writeAudit(ctx, r, actor.UserID,
				model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
				map[string]string{"status": string(before.Status)},
				map[string]string{"status": string(o.Status)},
			); err != nil {
				return err
			}
		}

		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 管理者のみ。明細も消える
func (u *OrderUsecase) Delete(ctx context.Context, actor Actor, orderID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if orderID <= 0 {
		return validation("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, "order", "find order")
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return fromRepo(err, "order", "delete order")
		}
		return writeAudit(ctx, r, actor.UserID,
			model.AuditActionDeleteOrder, model.AuditResourceOrder, orderID,
			o, nil,
		)
	})
}

func pick(v *string, cur string) string {
	if v == nil {
		return cur
	}
	return strings.TrimSpace(*v)
}

// 明細・ユーザーのemail・割引コードをまとめる
func loadOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, internal(err, "list order items")
	}

	email := ""
	if user, err := r.Users().FindByID(ctx, o.UserID); err == nil {
		email = user.Email
	}

	code := ""
	if o.DiscountID != nil {
		if d, err := r.Discounts().FindByID(ctx, *o.DiscountID); err == nil {
			code = d.Code
		}
	}

	return toOrderOutput(o, items, email, code), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, email string, discountCode string) OrderOutput {
	if items == nil {
		items = []model.OrderItem{}
	}
	return OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		UserEmail:    email,
		DiscountID:   o.DiscountID,
		DiscountCode: discountCode,
		TotalPrice:   o.TotalPrice,
		Status:       string(o.Status),
		City:         o.City,
		Street:       o.Street,
		Number:       o.Number,
		PostalCode:   o.PostalCode,
		CreatedAt:    o.CreatedAt,
		Items:        items,
	}
}
