package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
	"football-store/internal/validator"
)

type ProductUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

// DI
func NewProductUsecase(tx repo.TransactionManager, log *zap.Logger) *ProductUsecase {
	return &ProductUsecase{tx: tx, log: log}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Team     string
	Licensed *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Team        string
	Licensed    bool
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, validation("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, validation("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, validation("q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, validation("minPrice must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, validation("maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, validation("minPrice must be <= maxPrice")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, validation("invalid sort")
	}

	var out ProductListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Products().List(ctx, repo.ProductListQuery{
			Page:     in.Page,
			Limit:    in.Limit,
			Q:        strings.TrimSpace(in.Q),
			Team:     strings.TrimSpace(in.Team),
			Licensed: in.Licensed,
			MinPrice: in.MinPrice,
			MaxPrice: in.MaxPrice,
			Sort:     in.Sort,
		})
		if err != nil {
			return internal(err, "list products")
		}
		if items == nil {
			items = []model.Product{}
		}
		out = ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})
	if err != nil {
		return ProductListOutput{}, err
	}
	return out, nil
}

// 削除済みは見つからない扱い
func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validation("invalid product id")
	}

	var p model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		p, err = r.Products().FindByID(ctx, productID)
		if err != nil {
			return fromRepo(err, "product", "find product")
		}
		return nil
	})
	return p, err
}

func (u *ProductUsecase) AdminCreate(ctx context.Context, actor Actor, in ProductInput) (model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Product{}, err
	}
	if err := validator.Product(in.Name, in.Description, in.Price, in.Team); err != nil {
		return model.Product{}, validation(err.Error())
	}

	var created model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		created, err = r.Products().Create(ctx, model.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: strings.TrimSpace(in.Description),
			Price:       in.Price,
			Team:        strings.TrimSpace(in.Team),
			Licensed:    in.Licensed,
		})
		if err != nil {
			return internal(err, "create product")
		}
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	u.log.Info("product created", zap.Int64("product_id", created.ID), zap.Int64("admin_id", actor.UserID))
	return created, nil
}

// 価格を変えてもカート明細・注文明細の価格はそのまま
func (u *ProductUsecase) AdminUpdate(ctx context.Context, actor Actor, productID int64, in ProductInput) (model.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Product{}, err
	}
	if productID <= 0 {
		return model.Product{}, validation("invalid product id")
	}
	if err := validator.Product(in.Name, in.Description, in.Price, in.Team); err != nil {
		return model.Product{}, validation(err.Error())
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return fromRepo(err, "product", "find product")
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Description = strings.TrimSpace(in.Description)
		p.Price = in.Price
		p.Team = strings.TrimSpace(in.Team)
		p.Licensed = in.Licensed
		if err := r.Products().Update(ctx, p); err != nil {
			return fromRepo(err, "product", "update product")
		}

		out, err = r.Products().FindByID(ctx, productID)
		if err != nil {
			return fromRepo(err, "product", "find product")
		}
		return nil
	})
	return out, err
}

func (u *ProductUsecase) AdminDelete(ctx context.Context, actor Actor, productID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if productID <= 0 {
		return validation("invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			return fromRepo(err, "product", "delete product")
		}
		return nil
	})
}
