package usecase

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
	"football-store/internal/validator"
)

const (
	msgInvalidCoupon  = "Invalid coupon code"
	msgInactiveCoupon = "Coupon is not active"
)

type DiscountUsecase struct {
	tx       repo.TransactionManager
	importer repo.DiscountImporter
	log      *zap.Logger
}

// importerがnilなら1件ずつ作成する
func NewDiscountUsecase(tx repo.TransactionManager, importer repo.DiscountImporter, log *zap.Logger) *DiscountUsecase {
	return &DiscountUsecase{tx: tx, importer: importer, log: log}
}

type ValidateDiscountOutput struct {
	Valid              bool   `json:"valid"`
	Message            string `json:"message,omitempty"`
	DiscountPercentage *int   `json:"discountPercentage,omitempty"`
	DiscountID         *int64 `json:"discountId,omitempty"`
}

type DiscountInput struct {
	Code               string
	DiscountPercentage int
	// nilなら有効
	Active *bool
}

type ImportDiscountsOutput struct {
	Received int      `json:"received"`
	Created  int64    `json:"created"`
	Skipped  int64    `json:"skipped"`
	Invalid  []string `json:"invalid"`
}

// 読み取りのみ
func (u *DiscountUsecase) Validate(ctx context.Context, code string) (ValidateDiscountOutput, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ValidateDiscountOutput{Valid: false, Message: msgInvalidCoupon}, nil
	}

	var out ValidateDiscountOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d, err := r.Discounts().FindByCode(ctx, code)
		if errors.Is(err, repo.ErrNotFound) {
			out = ValidateDiscountOutput{Valid: false, Message: msgInvalidCoupon}
			return nil
		}
		if err != nil {
			return internal(err, "find discount")
		}
		if !d.Active {
			out = ValidateDiscountOutput{Valid: false, Message: msgInactiveCoupon}
			return nil
		}

		pct, id := d.DiscountPercentage, d.ID
		out = ValidateDiscountOutput{Valid: true, DiscountPercentage: &pct, DiscountID: &id}
		return nil
	})
	if err != nil {
		return ValidateDiscountOutput{}, err
	}
	return out, nil
}

// 使用済みにする（すでに無効でもエラーにしない）
func (u *DiscountUsecase) MarkUsed(ctx context.Context, actor Actor, id int64) (model.Discount, error) {
	if err := requireActor(actor); err != nil {
		return model.Discount{}, err
	}

	var out model.Discount
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = markDiscountUsed(ctx, r, id, false)
		return err
	})
	if err != nil {
		return model.Discount{}, err
	}

	u.log.Info("discount marked used", zap.Int64("discount_id", id))
	return out, nil
}

// strictなら、すでに無効だった場合はInvalidState（同時利用の負け側）
func markDiscountUsed(ctx context.Context, r repo.TxRepos, id int64, strict bool) (model.Discount, error) {
	if _, err := r.Discounts().FindByID(ctx, id); err != nil {
		return model.Discount{}, fromRepo(err, "discount", "find discount")
	}

	changed, err := r.Discounts().DeactivateIfActive(ctx, id)
	if err != nil {
		return model.Discount{}, internal(err, "deactivate discount")
	}
	if !changed && strict {
		return model.Discount{}, invalidState("discount no longer valid")
	}

	d, err := r.Discounts().FindByID(ctx, id)
	if err != nil {
		return model.Discount{}, fromRepo(err, "discount", "find discount")
	}
	return d, nil
}

func (u *DiscountUsecase) List(ctx context.Context, actor Actor) ([]model.Discount, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out []model.Discount
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = r.Discounts().List(ctx)
		if err != nil {
			return internal(err, "list discounts")
		}
		return nil
	})
	return out, err
}

func (u *DiscountUsecase) Get(ctx context.Context, actor Actor, id int64) (model.Discount, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Discount{}, err
	}

	var out model.Discount
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = r.Discounts().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, "discount", "find discount")
		}
		return nil
	})
	return out, err
}

func (u *DiscountUsecase) Create(ctx context.Context, actor Actor, in DiscountInput) (model.Discount, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Discount{}, err
	}
	code, err := validator.Discount(in.Code, in.DiscountPercentage)
	if err != nil {
		return model.Discount{}, validation(err.Error())
	}

	d := model.Discount{
		Code:               code,
		DiscountPercentage: in.DiscountPercentage,
		Active:             in.Active == nil || *in.Active,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Discounts().Create(ctx, &d); err != nil {
			return discountWriteErr(err, "create discount")
		}
		return nil
	})
	if err != nil {
		return model.Discount{}, err
	}

	u.log.Info("discount created", zap.Int64("discount_id", d.ID), zap.String("code", d.Code))
	return d, nil
}

func (u *DiscountUsecase) Update(ctx context.Context, actor Actor, id int64, in DiscountInput) (model.Discount, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Discount{}, err
	}
	code, err := validator.Discount(in.Code, in.DiscountPercentage)
	if err != nil {
		return model.Discount{}, validation(err.Error())
	}

	var out model.Discount
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d, err := r.Discounts().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, "discount", "find discount")
		}

		d.Code = code
		d.DiscountPercentage = in.DiscountPercentage
		if in.Active != nil {
			d.Active = *in.Active
		}
		if err := r.Discounts().Update(ctx, &d); err != nil {
			return discountWriteErr(err, "update discount")
		}
		out = d
		return nil
	})
	return out, err
}

// 注文からの参照は外れる（注文の合計は変わらない）
func (u *DiscountUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		d, err := r.Discounts().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, "discount", "find discount")
		}
		if err := r.Discounts().Delete(ctx, id); err != nil {
			return fromRepo(err, "discount", "delete discount")
		}
		return writeAudit(ctx, r, actor.UserID,
			model.AuditActionDeleteDiscount, model.AuditResourceDiscount, id,
			d, nil,
		)
	})
}

// 不正な行は飛ばし、既存コードはスキップして取り込む
func (u *DiscountUsecase) Import(ctx context.Context, rows []DiscountInput) (ImportDiscountsOutput, error) {
	out := ImportDiscountsOutput{Received: len(rows), Invalid: []string{}}

	valid := make([]model.Discount, 0, len(rows))
	for _, row := range rows {
		code, err := validator.Discount(row.Code, row.DiscountPercentage)
		if err != nil {
			out.Invalid = append(out.Invalid, row.Code+": "+err.Error())
			continue
		}
		valid = append(valid, model.Discount{
			Code:               code,
			DiscountPercentage: row.DiscountPercentage,
			Active:             row.Active == nil || *row.Active,
		})
	}

	created, err := u.importValid(ctx, valid)
	if err != nil {
		return ImportDiscountsOutput{}, err
	}

	out.Created = created
	out.Skipped = int64(len(valid)) - created
	u.log.Info("discounts imported",
		zap.Int("received", out.Received),
		zap.Int64("created", out.Created),
		zap.Int64("skipped", out.Skipped),
		zap.Int("invalid", len(out.Invalid)),
	)
	return out, nil
}

func (u *DiscountUsecase) importValid(ctx context.Context, ds []model.Discount) (int64, error) {
	if u.importer != nil {
		n, err := u.importer.Import(ctx, ds)
		if err != nil {
			return 0, internal(err, "import discounts")
		}
		return n, nil
	}

	var created int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for i := range ds {
			err := r.Discounts().Create(ctx, &ds[i])
			if errors.Is(err, repo.ErrDuplicate) {
				continue
			}
			if err != nil {
				return internal(err, "create discount")
			}
			created++
		}
		return nil
	})
	return created, err
}

func discountWriteErr(err error, op string) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return NewAppError(KindConflict, "discount code already exists")
	}
	return fromRepo(err, "discount", op)
}
