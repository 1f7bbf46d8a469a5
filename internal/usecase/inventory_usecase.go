package usecase

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type InventoryUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewInventoryUsecase(tx repo.TransactionManager, log *zap.Logger) *InventoryUsecase {
	return &InventoryUsecase{tx: tx, log: log}
}

type InventoryOutput struct {
	ProductID      int64                    `json:"productId"`
	Sizes          []model.ProductInventory `json:"sizes"`
	AvailableSizes []model.Size             `json:"availableSizes"`
}

type SetStockInput struct {
	Size     string
	Quantity int64
	Reason   string
}

// サイズ別在庫と在庫ありのサイズ
func (u *InventoryUsecase) ListByProduct(ctx context.Context, productID int64) (InventoryOutput, error) {
	if productID <= 0 {
		return InventoryOutput{}, validation("invalid product id")
	}

	out := InventoryOutput{ProductID: productID}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			return fromRepo(err, "product", "find product")
		}

		rows, err := r.Inventory().ListByProductID(ctx, productID)
		if err != nil {
			return internal(err, "list inventory")
		}

		out.Sizes = make([]model.ProductInventory, 0, len(rows))
		out.AvailableSizes = []model.Size{}
		for _, row := range rows {
			out.Sizes = append(out.Sizes, row)
			if row.Quantity > 0 {
				out.AvailableSizes = append(out.AvailableSizes, row.Size)
			}
		}
		return nil
	})
	if err != nil {
		return InventoryOutput{}, err
	}
	return out, nil
}

func (u *InventoryUsecase) IsSizeAvailable(ctx context.Context, productID int64, size string) (bool, error) {
	sz, ok := model.ParseSize(size)
	if !ok {
		return false, validation("invalid size")
	}

	var available bool
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		row, err := r.Inventory().FindByProductAndSize(ctx, productID, sz)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			return internal(err, "find inventory")
		}
		available = row.Quantity > 0
		return nil
	})
	return available, err
}

// 在庫の現在値・調整履歴・監査ログを同じTxで書く
func (u *InventoryUsecase) AdminSetStock(ctx context.Context, actor Actor, productID int64, in SetStockInput) (model.ProductInventory, error) {
	if err := requireAdmin(actor); err != nil {
		return model.ProductInventory{}, err
	}
	if productID <= 0 {
		return model.ProductInventory{}, validation("invalid product id")
	}
	sz, ok := model.ParseSize(in.Size)
	if !ok {
		return model.ProductInventory{}, validation("invalid size")
	}
	if in.Quantity < 0 {
		return model.ProductInventory{}, validation("quantity must be >= 0")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return model.ProductInventory{}, validation("reason required")
	}

	var out model.ProductInventory

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			return fromRepo(err, "product", "find product")
		}

		before, err := r.Inventory().SetQuantity(ctx, productID, sz, in.Quantity)
		if err != nil {
			return internal(err, "set stock")
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			Size:        sz,
			AdminUserID: actor.UserID,
			Delta:       in.Quantity - before,
			Reason:      reason,
		}); err != nil {
			return internal(err, "create adjustment")
		}

		if err := writeAudit(ctx, r, actor.UserID,
			model.AuditActionSetStock, model.AuditResourceProduct, productID,
			map[string]any{"size": sz, "quantity": before},
			map[string]any{"size": sz, "quantity": in.Quantity},
		); err != nil {
			return err
		}

		out, err = r.Inventory().FindByProductAndSize(ctx, productID, sz)
		if err != nil {
			return fromRepo(err, "inventory", "find inventory")
		}
		return nil
	})
	if err != nil {
		return model.ProductInventory{}, err
	}

	u.log.Info("stock set",
		zap.Int64("product_id", productID),
		zap.String("size", string(sz)),
		zap.Int64("quantity", in.Quantity),
		zap.Int64("admin_id", actor.UserID),
	)
	return out, nil
}
