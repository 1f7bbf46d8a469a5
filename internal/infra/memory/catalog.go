package memory

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type productRepo struct{ *txRepos }

func alive(p model.Product) bool { return !p.DeletedAt.Valid }

func (r *productRepo) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	term := strings.ToLower(strings.TrimSpace(q.Q))
	team := strings.TrimSpace(q.Team)

	matched := sortedValues(r.st.products, func(p model.Product) bool {
		if !alive(p) {
			return false
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
		if team != "" && !strings.EqualFold(p.Team, team) {
			return false
		}
		if q.Licensed != nil && p.Licensed != *q.Licensed {
			return false
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			return false
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			return false
		}
		return true
	})

	switch q.Sort {
	case "price_asc":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price.LessThan(matched[j].Price) })
	case "price_desc":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price.GreaterThan(matched[j].Price) })
	default:
		// 新しい順（idが大きいほど新しい）
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	}

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []model.Product{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := r.st.products[id]
	if !ok || !alive(p) {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	now := r.now()
	p.ID = r.st.nextID()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.st.products[p.ID] = p
	return p, nil
}

func (r *productRepo) Update(ctx context.Context, p model.Product) error {
	cur, ok := r.st.products[p.ID]
	if !ok || !alive(cur) {
		return repo.ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Price = p.Price
	cur.Team = p.Team
	cur.Licensed = p.Licensed
	cur.UpdatedAt = r.now()
	r.st.products[p.ID] = cur
	return nil
}

func (r *productRepo) SoftDelete(ctx context.Context, id int64) error {
	cur, ok := r.st.products[id]
	if !ok || !alive(cur) {
		return repo.ErrNotFound
	}
	cur.DeletedAt = gorm.DeletedAt{Time: r.now(), Valid: true}
	r.st.products[id] = cur
	return nil
}

type inventoryRepo struct{ *txRepos }

func sizeRank(s model.Size) int {
	for i, sz := range model.AllSizes {
		if sz == s {
			return i
		}
	}
	return len(model.AllSizes)
}

func (r *inventoryRepo) ListByProductID(ctx context.Context, productID int64) ([]model.ProductInventory, error) {
	rows := sortedValues(r.st.inventory, func(v model.ProductInventory) bool {
		return v.ProductID == productID
	})
	sort.SliceStable(rows, func(i, j int) bool { return sizeRank(rows[i].Size) < sizeRank(rows[j].Size) })
	return rows, nil
}

func (r *inventoryRepo) FindByProductAndSize(ctx context.Context, productID int64, size model.Size) (model.ProductInventory, error) {
	for _, v := range r.st.inventory {
		if v.ProductID == productID && v.Size == size {
			return v, nil
		}
	}
	return model.ProductInventory{}, repo.ErrNotFound
}

func (r *inventoryRepo) SetQuantity(ctx context.Context, productID int64, size model.Size, quantity int64) (int64, error) {
	cur, err := r.FindByProductAndSize(ctx, productID, size)
	if err != nil {
		row := model.ProductInventory{
			ID:        r.st.nextID(),
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
			UpdatedAt: r.now(),
		}
		r.st.inventory[row.ID] = row
		return 0, nil
	}

	before := cur.Quantity
	cur.Quantity = quantity
	cur.UpdatedAt = r.now()
	r.st.inventory[cur.ID] = cur
	return before, nil
}

func (r *inventoryRepo) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	adj.ID = r.st.nextID()
	adj.CreatedAt = r.now()
	r.st.adjustments = append(r.st.adjustments, adj)
	return nil
}
