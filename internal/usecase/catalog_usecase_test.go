package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-store/internal/domain/model"
	"football-store/internal/infra/memory"
	repo "football-store/internal/repository"
	"football-store/internal/usecase"
)

// =====================
// 商品
// =====================

func TestProductList_FiltersAndSorts(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUsecase(store, nopLog)
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	ctx := context.Background()

	for _, in := range []usecase.ProductInput{
		{Name: "Madrid Home Shirt", Price: dec("89.99"), Team: "Real Madrid", Licensed: true},
		{Name: "Madrid Scarf", Price: dec("19.99"), Team: "Real Madrid"},
		{Name: "Barca Away Shirt", Price: dec("79.99"), Team: "Barcelona", Licensed: true},
	} {
		_, err := uc.AdminCreate(ctx, asUser(admin), in)
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, usecase.ListProductsInput{Page: 1, Limit: 10, Q: "shirt", Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(2), out.Total)
	assert.Equal(t, "Barca Away Shirt", out.Items[0].Name)

	licensed := true
	minPrice := dec("80")
	out, err = uc.List(ctx, usecase.ListProductsInput{Page: 1, Limit: 10, Licensed: &licensed, MinPrice: &minPrice})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Madrid Home Shirt", out.Items[0].Name)

	out, err = uc.List(ctx, usecase.ListProductsInput{Page: 2, Limit: 2, Team: "real madrid"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Empty(t, out.Items)
}

func TestProductList_InvalidInput(t *testing.T) {
	uc := usecase.NewProductUsecase(memory.NewStore(), nopLog)
	lo, hi := dec("50"), dec("10")

	tests := []struct {
		name string
		in   usecase.ListProductsInput
	}{
		{name: "page 0", in: usecase.ListProductsInput{Page: 0, Limit: 10}},
		{name: "limit超過", in: usecase.ListProductsInput{Page: 1, Limit: 101}},
		{name: "sort不正", in: usecase.ListProductsInput{Page: 1, Limit: 10, Sort: "name"}},
		{name: "min>max", in: usecase.ListProductsInput{Page: 1, Limit: 10, MinPrice: &lo, MaxPrice: &hi}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.List(context.Background(), tt.in)
			assert.True(t, usecase.HasKind(err, usecase.KindValidation))
		})
	}
}

func TestProductAdmin_CreateUpdateDelete(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUsecase(store, nopLog)
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	user, _ := seedUser(t, store, "u@test.com", model.RoleUser)
	ctx := context.Background()

	_, err := uc.AdminCreate(ctx, asUser(user), usecase.ProductInput{Name: "X", Price: dec("1.00")})
	assert.True(t, usecase.HasKind(err, usecase.KindForbidden))

	_, err = uc.AdminCreate(ctx, asUser(admin), usecase.ProductInput{Name: "X", Price: dec("1.005")})
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	_, err = uc.AdminCreate(ctx, asUser(admin), usecase.ProductInput{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	p, err := uc.AdminCreate(ctx, asUser(admin), usecase.ProductInput{Name: " Cap ", Price: dec("15.00"), Team: "Betis"})
	require.NoError(t, err)
	assert.Equal(t, "Cap", p.Name)

	p, err = uc.AdminUpdate(ctx, asUser(admin), p.ID, usecase.ProductInput{Name: "Cap", Price: dec("17.50"), Team: "Betis"})
	require.NoError(t, err)
	assert.Equal(t, "17.50", p.Price.StringFixed(2))

	require.NoError(t, uc.AdminDelete(ctx, asUser(admin), p.ID))

	// 論理削除後は見えない
	_, err = uc.Get(ctx, p.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	err = uc.AdminDelete(ctx, asUser(admin), p.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))
}

// =====================
// 在庫
// =====================

func TestInventory_SetStockAndAvailability(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewInventoryUsecase(store, nopLog)
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	p := seedProduct(t, store, "Shirt", "50.00")
	ctx := context.Background()

	row, err := uc.AdminSetStock(ctx, asUser(admin), p.ID, usecase.SetStockInput{Size: "m", Quantity: 5, Reason: "restock"})
	require.NoError(t, err)
	assert.Equal(t, model.SizeM, row.Size)
	assert.Equal(t, int64(5), row.Quantity)

	_, err = uc.AdminSetStock(ctx, asUser(admin), p.ID, usecase.SetStockInput{Size: "L", Quantity: 0, Reason: "sold out"})
	require.NoError(t, err)

	out, err := uc.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, out.Sizes, 2)
	assert.Equal(t, []model.Size{model.SizeM}, out.AvailableSizes)

	ok, err := uc.IsSizeAvailable(ctx, p.ID, "M")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.IsSizeAvailable(ctx, p.ID, "L")
	require.NoError(t, err)
	assert.False(t, ok)

	// 行が無いサイズは在庫なし
	ok, err = uc.IsSizeAvailable(ctx, p.ID, "XL")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.IsSizeAvailable(ctx, p.ID, "huge")
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	action := model.AuditActionSetStock
	logs := readState(t, store, func(r repo.TxRepos) ([]model.AuditLog, error) {
		return r.AuditLogs().List(ctx, repo.AuditLogFilter{Action: &action})
	})
	assert.Len(t, logs, 2)
}

func TestInventory_SetStockRejects(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewInventoryUsecase(store, nopLog)
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	user, _ := seedUser(t, store, "u@test.com", model.RoleUser)
	p := seedProduct(t, store, "Shirt", "50.00")
	ctx := context.Background()

	_, err := uc.AdminSetStock(ctx, asUser(user), p.ID, usecase.SetStockInput{Size: "M", Quantity: 1, Reason: "x"})
	assert.True(t, usecase.HasKind(err, usecase.KindForbidden))

	_, err = uc.AdminSetStock(ctx, asUser(admin), p.ID, usecase.SetStockInput{Size: "M", Quantity: -1, Reason: "x"})
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	_, err = uc.AdminSetStock(ctx, asUser(admin), p.ID, usecase.SetStockInput{Size: "M", Quantity: 1, Reason: " "})
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	_, err = uc.AdminSetStock(ctx, asUser(admin), 9999, usecase.SetStockInput{Size: "M", Quantity: 1, Reason: "x"})
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))
}

// 監査ログが書けなければ在庫も変わらない
func TestInventory_AuditFailureRollsBack(t *testing.T) {
	store := memory.NewStore()
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	p := seedProduct(t, store, "Shirt", "50.00")

	faulty := usecase.NewInventoryUsecase(&faultyTx{inner: store, at: failAuditCreate}, nopLog)
	_, err := faulty.AdminSetStock(context.Background(), asUser(admin), p.ID, usecase.SetStockInput{Size: "M", Quantity: 3, Reason: "restock"})
	require.Error(t, err)

	out, err := usecase.NewInventoryUsecase(store, nopLog).ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Sizes)
}
