package memory

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		u := &model.User{Email: "a@test.com", Role: model.RoleUser, IsActive: true}
		if err := r.Users().Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Users().FindByEmail(ctx, "a@test.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestWithinTx_CanceledContextDiscards(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		cancel()
		return r.Users().Create(ctx, &model.User{Email: "a@test.com"})
	})
	assert.ErrorIs(t, err, context.Canceled)

	users, err := s.Users().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDeactivateIfActive_OnlyOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var first, second bool
	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		d := &model.Discount{Code: "X", DiscountPercentage: 10, Active: true}
		if err := r.Discounts().Create(ctx, d); err != nil {
			return err
		}
		var err error
		if first, err = r.Discounts().DeactivateIfActive(ctx, d.ID); err != nil {
			return err
		}
		second, err = r.Discounts().DeactivateIfActive(ctx, d.ID)
		return err
	})
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)
}

func TestDiscountCreate_DuplicateCode(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Discounts().Create(ctx, &model.Discount{Code: "DUP", Active: true}); err != nil {
			return err
		}
		return r.Discounts().Create(ctx, &model.Discount{Code: "DUP", Active: true})
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

// 指定したidの明細だけ消える
func TestCartItemsDeleteByIDs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		c := &model.Cart{UserID: 1, TotalPrice: decimal.Zero}
		if err := r.Carts().Create(ctx, c); err != nil {
			return err
		}
		var ids []int64
		for range 3 {
			it := &model.CartItem{CartID: c.ID, ProductID: 1, Size: model.SizeM, Quantity: 1, Price: decimal.NewFromInt(5)}
			if err := r.CartItems().Create(ctx, it); err != nil {
				return err
			}
			ids = append(ids, it.ID)
		}

		n, err := r.CartItems().DeleteByIDs(ctx, ids[:2])
		if err != nil {
			return err
		}
		assert.Equal(t, int64(2), n)

		left, err := r.CartItems().ListByCartID(ctx, c.ID)
		if err != nil {
			return err
		}
		require.Len(t, left, 1)
		assert.Equal(t, ids[2], left[0].ID)
		return nil
	})
	require.NoError(t, err)
}
