package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-store/internal/domain/model"
	"football-store/internal/infra/memory"
	repo "football-store/internal/repository"
	"football-store/internal/usecase"
)

func boolPtr(b bool) *bool { return &b }

// =====================
// Validate
// =====================

func TestDiscountValidate(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewDiscountUsecase(store, nil, nopLog)
	active := seedDiscount(t, store, "SUMMER25", 25, true)
	seedDiscount(t, store, "EXPIRED", 10, false)

	tests := []struct {
		name    string
		code    string
		valid   bool
		message string
	}{
		{name: "有効", code: "SUMMER25", valid: true},
		{name: "前後空白は無視", code: "  SUMMER25 ", valid: true},
		{name: "無効化済み", code: "EXPIRED", message: "Coupon is not active"},
		{name: "存在しない", code: "NOPE", message: "Invalid coupon code"},
		{name: "空", code: "", message: "Invalid coupon code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Validate(context.Background(), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, out.Valid)
			assert.Equal(t, tt.message, out.Message)
			if tt.valid {
				require.NotNil(t, out.DiscountPercentage)
				assert.Equal(t, 25, *out.DiscountPercentage)
				require.NotNil(t, out.DiscountID)
				assert.Equal(t, active.ID, *out.DiscountID)
			}
		})
	}

	// 検証では使用済みにならない
	assert.True(t, discountByID(t, store, active.ID).Active)
}

// =====================
// MarkUsed
// =====================

func TestDiscountMarkUsed_Idempotent(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewDiscountUsecase(store, nil, nopLog)
	user, _ := seedUser(t, store, "u@test.com", model.RoleUser)
	d := seedDiscount(t, store, "ONCE", 10, true)

	got, err := uc.MarkUsed(context.Background(), asUser(user), d.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = uc.MarkUsed(context.Background(), asUser(user), d.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = uc.MarkUsed(context.Background(), asUser(user), 9999)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	_, err = uc.MarkUsed(context.Background(), usecase.Actor{}, d.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindUnauthorized))
}

// =====================
// 管理者CRUD
// =====================

func TestDiscountAdminCRUD(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewDiscountUsecase(store, nil, nopLog)
	admin, _ := seedUser(t, store, "admin@test.com", model.RoleAdmin)
	user, _ := seedUser(t, store, "u@test.com", model.RoleUser)
	ctx := context.Background()

	_, err := uc.Create(ctx, asUser(user), usecase.DiscountInput{Code: "X", DiscountPercentage: 5})
	assert.True(t, usecase.HasKind(err, usecase.KindForbidden))

	d, err := uc.Create(ctx, asUser(admin), usecase.DiscountInput{Code: " WINTER ", DiscountPercentage: 30})
	require.NoError(t, err)
	assert.Equal(t, "WINTER", d.Code)
	assert.True(t, d.Active)

	_, err = uc.Create(ctx, asUser(admin), usecase.DiscountInput{Code: "WINTER", DiscountPercentage: 5})
	assert.True(t, usecase.HasKind(err, usecase.KindConflict))

	_, err = uc.Create(ctx, asUser(admin), usecase.DiscountInput{Code: "BIG", DiscountPercentage: 101})
	assert.True(t, usecase.HasKind(err, usecase.KindValidation))

	updated, err := uc.Update(ctx, asUser(admin), d.ID, usecase.DiscountInput{
		Code:               "WINTER",
		DiscountPercentage: 35,
		Active:             boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 35, updated.DiscountPercentage)
	assert.False(t, updated.Active)

	list, err := uc.List(ctx, asUser(admin))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, asUser(admin), d.ID))
	_, err = uc.Get(ctx, asUser(admin), d.ID)
	assert.True(t, usecase.HasKind(err, usecase.KindNotFound))

	action := model.AuditActionDeleteDiscount
	logs := readState(t, store, func(r repo.TxRepos) ([]model.AuditLog, error) {
		return r.AuditLogs().List(ctx, repo.AuditLogFilter{Action: &action})
	})
	require.Len(t, logs, 1)
	assert.Equal(t, d.ID, logs[0].ResourceID)
	assert.Equal(t, admin.ID, logs[0].ActorUserID)
}

// =====================
// Import
// =====================

func TestDiscountImport_SkipsExistingAndInvalid(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewDiscountUsecase(store, nil, nopLog)
	seedDiscount(t, store, "EXISTING", 10, true)

	out, err := uc.Import(context.Background(), []usecase.DiscountInput{
		{Code: "NEW1", DiscountPercentage: 15},
		{Code: "EXISTING", DiscountPercentage: 50},
		{Code: "NEW1", DiscountPercentage: 20},
		{Code: "OFF", DiscountPercentage: 5, Active: boolPtr(false)},
		{Code: "", DiscountPercentage: 5},
		{Code: "BAD", DiscountPercentage: 150},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, out.Received)
	assert.Equal(t, int64(2), out.Created)
	assert.Equal(t, int64(2), out.Skipped)
	assert.Len(t, out.Invalid, 2)

	all := readState(t, store, func(r repo.TxRepos) ([]model.Discount, error) {
		return r.Discounts().List(context.Background())
	})
	require.Len(t, all, 3)

	// 既存の値は上書きしない
	existing := readState(t, store, func(r repo.TxRepos) (model.Discount, error) {
		return r.Discounts().FindByCode(context.Background(), "EXISTING")
	})
	assert.Equal(t, 10, existing.DiscountPercentage)

	off := readState(t, store, func(r repo.TxRepos) (model.Discount, error) {
		return r.Discounts().FindByCode(context.Background(), "OFF")
	})
	assert.False(t, off.Active)
}

type stubImporter struct {
	got []model.Discount
	n   int64
}

func (s *stubImporter) Import(ctx context.Context, ds []model.Discount) (int64, error) {
	s.got = ds
	return s.n, nil
}

func TestDiscountImport_UsesBulkImporter(t *testing.T) {
	store := memory.NewStore()
	imp := &stubImporter{n: 1}
	uc := usecase.NewDiscountUsecase(store, imp, nopLog)

	out, err := uc.Import(context.Background(), []usecase.DiscountInput{
		{Code: "A", DiscountPercentage: 10},
		{Code: "B", DiscountPercentage: 20},
	})
	require.NoError(t, err)

	require.Len(t, imp.got, 2)
	assert.Equal(t, "A", imp.got[0].Code)
	assert.True(t, imp.got[0].Active)
	assert.Equal(t, int64(1), out.Created)
	assert.Equal(t, int64(1), out.Skipped)
}
