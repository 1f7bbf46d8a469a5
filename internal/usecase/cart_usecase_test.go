package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-store/internal/domain/model"
	"football-store/internal/infra/memory"
	"football-store/internal/usecase"
)

// 合計と明細の合計が一致しているか
func assertTotalMatchesItems(t *testing.T, store *memory.Store, cartID int64) {
	t.Helper()
	sum := decimal.Zero
	for _, it := range cartItems(t, store, cartID) {
		sum = sum.Add(it.Price)
	}
	assert.True(t, sum.Equal(cartTotal(t, store, cartID)), "total=%s sum=%s", cartTotal(t, store, cartID), sum)
}

// =====================
// AddItem
// =====================

func TestCartAddItem_StoresLinePriceAndTotal(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "19.99")

	item, err := uc.AddItem(context.Background(), asUser(user), usecase.AddCartItemInput{
		CartID:    cart.ID,
		ProductID: p.ID,
		Size:      "L",
		Quantity:  3,
		Player:    "Pedri",
		Number:    "8",
	})
	require.NoError(t, err)

	assert.Equal(t, "59.97", item.Price.StringFixed(2))
	assert.Equal(t, model.Size("L"), item.Size)
	assert.Equal(t, "59.97", cartTotal(t, store, cart.ID).StringFixed(2))
	assertTotalMatchesItems(t, store, cart.ID)
}

func TestCartAddItem_Errors(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	_, otherCart := seedUser(t, store, "o@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "10.00")

	tests := []struct {
		name  string
		actor usecase.Actor
		in    usecase.AddCartItemInput
		kind  usecase.ErrorKind
	}{
		{
			name:  "未ログイン",
			actor: usecase.Actor{},
			in:    usecase.AddCartItemInput{CartID: cart.ID, ProductID: p.ID, Size: "M", Quantity: 1},
			kind:  usecase.KindUnauthorized,
		},
		{
			name:  "カートが無い",
			actor: asUser(user),
			in:    usecase.AddCartItemInput{CartID: 9999, ProductID: p.ID, Size: "M", Quantity: 1},
			kind:  usecase.KindNotFound,
		},
		{
			name:  "商品が無い",
			actor: asUser(user),
			in:    usecase.AddCartItemInput{CartID: cart.ID, ProductID: 9999, Size: "M", Quantity: 1},
			kind:  usecase.KindNotFound,
		},
		{
			name:  "他人のカート",
			actor: asUser(user),
			in:    usecase.AddCartItemInput{CartID: otherCart.ID, ProductID: p.ID, Size: "M", Quantity: 1},
			kind:  usecase.KindNotFound,
		},
		{
			name:  "数量0",
			actor: asUser(user),
			in:    usecase.AddCartItemInput{CartID: cart.ID, ProductID: p.ID, Size: "M", Quantity: 0},
			kind:  usecase.KindValidation,
		},
		{
			name:  "サイズ不正",
			actor: asUser(user),
			in:    usecase.AddCartItemInput{CartID: cart.ID, ProductID: p.ID, Size: "XXXL", Quantity: 1},
			kind:  usecase.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.AddItem(context.Background(), tt.actor, tt.in)
			require.Error(t, err)
			assert.True(t, usecase.HasKind(err, tt.kind), "got %v", err)
		})
	}

	// どれも状態を変えない
	assert.Empty(t, cartItems(t, store, cart.ID))
	assert.Empty(t, cartItems(t, store, otherCart.ID))
}

// 管理者は他人のカートも触れる
func TestCartAddItem_AdminCanUseAnyCart(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	_, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "10.00")

	addItem(t, uc, asUser(admin), cart.ID, p.ID, 1)
	assert.Len(t, cartItems(t, store, cart.ID), 1)
}

// =====================
// UpdateItemQuantity / RemoveItem
// =====================

func TestCartUpdateQuantity_RepricesAndKeepsTotal(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	shirt := seedProduct(t, store, "Shirt", "25.00")
	scarf := seedProduct(t, store, "Scarf", "9.95")

	item := addItem(t, uc, asUser(user), cart.ID, shirt.ID, 1)
	addItem(t, uc, asUser(user), cart.ID, scarf.ID, 2)

	got, err := uc.UpdateItemQuantity(context.Background(), asUser(user), item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Price.StringFixed(2))
	assert.Equal(t, "119.90", cartTotal(t, store, cart.ID).StringFixed(2))
	assertTotalMatchesItems(t, store, cart.ID)

	_, err = uc.UpdateItemQuantity(context.Background(), asUser(user), item.ID, 0)
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))
}

func TestCartRemoveItem(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	stranger, _ := seedUser(t, store, "x@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "25.00")

	a := addItem(t, uc, asUser(user), cart.ID, p.ID, 1)
	b := addItem(t, uc, asUser(user), cart.ID, p.ID, 2)

	// 他人の明細は見えない
	err := uc.RemoveItem(context.Background(), asUser(stranger), a.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))
	assert.Len(t, cartItems(t, store, cart.ID), 2)

	require.NoError(t, uc.RemoveItem(context.Background(), asUser(user), a.ID))
	assert.Equal(t, "50.00", cartTotal(t, store, cart.ID).StringFixed(2))
	assertTotalMatchesItems(t, store, cart.ID)

	// 2回目はNotFound
	err = uc.RemoveItem(context.Background(), asUser(user), a.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	require.NoError(t, uc.RemoveItem(context.Background(), asUser(user), b.ID))
	assert.True(t, cartTotal(t, store, cart.ID).IsZero())
}

// 合計の書き戻しに失敗したら明細も残らない
func TestCartAddItem_TotalFailureRollsBack(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(&faultyTx{inner: store, at: failCartTotalReset}, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "25.00")

	_, err := uc.AddItem(context.Background(), asUser(user), usecase.AddCartItemInput{
		CartID: cart.ID, ProductID: p.ID, Size: "M", Quantity: 1,
	})
	require.Error(t, err)
	assert.True(t, usecase.HasKind(err, usecase.KindInternal))
	assert.Empty(t, cartItems(t, store, cart.ID))
	assert.True(t, cartTotal(t, store, cart.ID).IsZero())
}

// numeric(12,2)に入らない金額は400（ValidationError）で止める
func TestCartAddItem_RejectsOversizedAmounts(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	cheap := seedProduct(t, store, "Sticker", "1.00")
	pricey := seedProduct(t, store, "Signed Ball", "9999999999.99")
	ctx := context.Background()

	_, err := uc.AddItem(ctx, asUser(user), usecase.AddCartItemInput{
		CartID: cart.ID, ProductID: cheap.ID, Size: "M", Quantity: 1_000_000_000_000,
	})
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	_, err = uc.AddItem(ctx, asUser(user), usecase.AddCartItemInput{
		CartID: cart.ID, ProductID: pricey.ID, Size: "M", Quantity: 2,
	})
	require.Error(t, err)
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))
	assert.EqualError(t, err, "line price too large")

	// 1つは入るが、2つ目で合計が溢れる
	addItem(t, uc, asUser(user), cart.ID, pricey.ID, 1)
	_, err = uc.AddItem(ctx, asUser(user), usecase.AddCartItemInput{
		CartID: cart.ID, ProductID: cheap.ID, Size: "M", Quantity: 1,
	})
	assert.EqualError(t, err, "cart total too large")
	assert.Len(t, cartItems(t, store, cart.ID), 1)
	assertTotalMatchesItems(t, store, cart.ID)

	item := cartItems(t, store, cart.ID)[0]
	_, err = uc.UpdateItemQuantity(ctx, asUser(user), item.ID, 2)
	assert.EqualError(t, err, "line price too large")
	_, err = uc.UpdateItemQuantity(ctx, asUser(user), item.ID, 1000)
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))
}

// =====================
// GetCart / GetMyCart
// =====================

func TestCartGet(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	stranger, _ := seedUser(t, store, "x@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "12.00")
	addItem(t, uc, asUser(user), cart.ID, p.ID, 2)

	out, err := uc.GetCart(context.Background(), asUser(user), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "24.00", out.TotalPrice.StringFixed(2))
	assert.Len(t, out.Items, 1)

	_, err = uc.GetCart(context.Background(), asUser(stranger), cart.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	mine, err := uc.GetMyCart(context.Background(), asUser(user))
	require.NoError(t, err)
	assert.Equal(t, cart.ID, mine.ID)
}

// ユーザーIDから引けるのは本人と管理者だけ
func TestCartGetByUser(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	stranger, _ := seedUser(t, store, "x@test.com", model.RoleUser)
	admin, _ := seedUser(t, store, "a@test.com", model.RoleAdmin)
	p := seedProduct(t, store, "Shirt", "12.00")
	ctx := context.Background()

	// 明細なしでも空配列
	empty, err := uc.GetCartByUser(ctx, asUser(user), user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, empty.ID)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	addItem(t, uc, asUser(user), cart.ID, p.ID, 1)

	byAdmin, err := uc.GetCartByUser(ctx, asUser(admin), user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, byAdmin.ID)
	assert.Len(t, byAdmin.Items, 1)

	_, err = uc.GetCartByUser(ctx, asUser(stranger), user.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	_, err = uc.GetCartByUser(ctx, asUser(admin), 9999)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	_, err = uc.GetCartByUser(ctx, asUser(user), 0)
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))
}

// =====================
// 並行性・操作の組み合わせ
// =====================

// 同じカートへの同時追加で更新が消えない
func TestCartAddItem_ConcurrentAddsKeepTotal(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	p := seedProduct(t, store, "Sticker", "0.10")

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = uc.AddItem(context.Background(), asUser(user), usecase.AddCartItemInput{
				CartID: cart.ID, ProductID: p.ID, Size: "M", Quantity: 3,
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, cartItems(t, store, cart.ID), n)
	assert.Equal(t, "15.00", cartTotal(t, store, cart.ID).StringFixed(2))
	assertTotalMatchesItems(t, store, cart.ID)
}

// 追加・数量変更・削除を同時に流しても合計は明細の合計
func TestCartMutations_ConcurrentMixKeepsTotal(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "7.25")
	actor := asUser(user)

	const n = 20
	existing := make([]model.CartItem, n)
	for i := range n {
		existing[i] = addItem(t, uc, actor, cart.ID, p.ID, 1)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 3*n)
	for i := range n {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := uc.AddItem(context.Background(), actor, usecase.AddCartItemInput{
				CartID: cart.ID, ProductID: p.ID, Size: "L", Quantity: 2,
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := uc.UpdateItemQuantity(context.Background(), actor, existing[i].ID, int64(i%4+1))
			errs <- err
		}()
		go func() {
			defer wg.Done()
			// 偶数番目だけ消す（数量変更とはどちらかが先に通る）
			if i%2 == 0 {
				errs <- uc.RemoveItem(context.Background(), actor, existing[i].ID)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !usecase.HasKind(err, usecase.KindNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	assertTotalMatchesItems(t, store, cart.ID)
}

// 一連の操作の各時点で合計が明細の合計と一致する
func TestCartMutations_SequenceKeepsTotal(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUsecase(store, nopLog)
	user, cart := seedUser(t, store, "u@test.com", model.RoleUser)
	shirt := seedProduct(t, store, "Shirt", "59.99")
	scarf := seedProduct(t, store, "Scarf", "0.33")
	actor := asUser(user)
	ctx := context.Background()

	a := addItem(t, uc, actor, cart.ID, shirt.ID, 1)
	assertTotalMatchesItems(t, store, cart.ID)

	b := addItem(t, uc, actor, cart.ID, scarf.ID, 3)
	assertTotalMatchesItems(t, store, cart.ID)
	assert.Equal(t, "60.98", cartTotal(t, store, cart.ID).StringFixed(2))

	_, err := uc.UpdateItemQuantity(ctx, actor, b.ID, 7)
	require.NoError(t, err)
	assertTotalMatchesItems(t, store, cart.ID)
	assert.Equal(t, "62.30", cartTotal(t, store, cart.ID).StringFixed(2))

	c := addItem(t, uc, actor, cart.ID, shirt.ID, 2)
	assertTotalMatchesItems(t, store, cart.ID)

	require.NoError(t, uc.RemoveItem(ctx, actor, a.ID))
	assertTotalMatchesItems(t, store, cart.ID)
	assert.Equal(t, "122.29", cartTotal(t, store, cart.ID).StringFixed(2))

	// 失敗した操作は合計を変えない
	_, err = uc.UpdateItemQuantity(ctx, actor, c.ID, 0)
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))
	assertTotalMatchesItems(t, store, cart.ID)

	require.NoError(t, uc.RemoveItem(ctx, actor, b.ID))
	require.NoError(t, uc.RemoveItem(ctx, actor, c.ID))
	assertTotalMatchesItems(t, store, cart.ID)
	assert.True(t, cartTotal(t, store, cart.ID).IsZero())
}
