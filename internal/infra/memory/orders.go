package memory

import (
	"context"
	"sort"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type discountRepo struct{ *txRepos }

func (r *discountRepo) Create(ctx context.Context, d *model.Discount) error {
	if _, err := r.FindByCode(ctx, d.Code); err == nil {
		return repo.ErrDuplicate
	}
	now := r.now()
	d.ID = r.st.nextID()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.st.discounts[d.ID] = *d
	return nil
}

func (r *discountRepo) FindByID(ctx context.Context, id int64) (model.Discount, error) {
	d, ok := r.st.discounts[id]
	if !ok {
		return model.Discount{}, repo.ErrNotFound
	}
	return d, nil
}

func (r *discountRepo) FindByCode(ctx context.Context, code string) (model.Discount, error) {
	for _, d := range r.st.discounts {
		if d.Code == code {
			return d, nil
		}
	}
	return model.Discount{}, repo.ErrNotFound
}

func (r *discountRepo) List(ctx context.Context) ([]model.Discount, error) {
	return sortedValues(r.st.discounts, nil), nil
}

func (r *discountRepo) Update(ctx context.Context, d *model.Discount) error {
	cur, ok := r.st.discounts[d.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if other, err := r.FindByCode(ctx, d.Code); err == nil && other.ID != d.ID {
		return repo.ErrDuplicate
	}
	cur.Code = d.Code
	cur.DiscountPercentage = d.DiscountPercentage
	cur.Active = d.Active
	cur.UpdatedAt = r.now()
	r.st.discounts[d.ID] = cur
	return nil
}

func (r *discountRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.st.discounts[id]; !ok {
		return repo.ErrNotFound
	}
	for oid, o := range r.st.orders {
		if o.DiscountID != nil && *o.DiscountID == id {
			o.DiscountID = nil
			r.st.orders[oid] = o
		}
	}
	delete(r.st.discounts, id)
	return nil
}

func (r *discountRepo) DeactivateIfActive(ctx context.Context, id int64) (bool, error) {
	d, ok := r.st.discounts[id]
	if !ok || !d.Active {
		return false, nil
	}
	d.Active = false
	d.UpdatedAt = r.now()
	r.st.discounts[id] = d
	return true, nil
}

type orderRepo struct{ *txRepos }

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	now := r.now()
	order.ID = r.st.nextID()
	order.CreatedAt = now
	order.UpdatedAt = now
	stored := *order
	stored.Items = nil
	r.st.orders[order.ID] = stored
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := r.st.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *orderRepo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	orders := sortedValues(r.st.orders, func(o model.Order) bool {
		if f.UserID != nil && o.UserID != *f.UserID {
			return false
		}
		if f.Status != nil && o.Status != *f.Status {
			return false
		}
		return true
	})
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (r *orderRepo) UpdateStatusAndAddress(ctx context.Context, o model.Order) error {
	cur, ok := r.st.orders[o.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Status = o.Status
	cur.City = o.City
	cur.Street = o.Street
	cur.Number = o.Number
	cur.PostalCode = o.PostalCode
	cur.UpdatedAt = r.now()
	r.st.orders[o.ID] = cur
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, orderID int64) error {
	if _, ok := r.st.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.orders, orderID)
	for id, it := range r.st.orderItems {
		if it.OrderID == orderID {
			delete(r.st.orderItems, id)
		}
	}
	return nil
}

type orderItemRepo struct{ *txRepos }

func (r *orderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	if _, ok := r.st.orders[orderID]; !ok {
		return nil, repo.ErrNotFound
	}
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.ID = r.st.nextID()
		it.OrderID = orderID
		it.CreatedAt = r.now()
		r.st.orderItems[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}

func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return sortedValues(r.st.orderItems, func(it model.OrderItem) bool {
		return it.OrderID == orderID
	}), nil
}

type auditLogRepo struct{ *txRepos }

func (r *auditLogRepo) Create(ctx context.Context, log model.AuditLog) error {
	log.ID = r.st.nextID()
	log.CreatedAt = r.now()
	r.st.auditLogs = append(r.st.auditLogs, log)
	return nil
}

// 新しい順
func (r *auditLogRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	out := []model.AuditLog{}
	for i := len(r.st.auditLogs) - 1; i >= 0; i-- {
		l := r.st.auditLogs[i]
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		out = append(out, l)
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []model.AuditLog{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
