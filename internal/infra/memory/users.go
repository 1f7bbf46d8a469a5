package memory

import (
	"context"
	"strings"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

type userRepo struct{ *txRepos }

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repo.ErrDuplicate
		}
	}
	now := r.now()
	user.ID = r.st.nextID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.st.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	u, ok := r.st.users[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	return sortedValues(r.st.users, nil), nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	cur, ok := r.st.users[user.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, u := range r.st.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repo.ErrDuplicate
		}
	}
	cur.Email = user.Email
	cur.PasswordHash = user.PasswordHash
	cur.Role = user.Role
	cur.IsActive = user.IsActive
	cur.LastLoginAt = user.LastLoginAt
	cur.UpdatedAt = r.now()
	r.st.users[user.ID] = cur
	return nil
}

func (r *userRepo) IncrementTokenVersion(ctx context.Context, userID int64) error {
	cur, ok := r.st.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.TokenVersion++
	r.st.users[userID] = cur
	return nil
}

func (r *userRepo) Delete(ctx context.Context, userID int64) error {
	if _, ok := r.st.users[userID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.users, userID)
	return nil
}

// Tx外からの呼び出しはStoreのロックを取る
type lockedUsers struct {
	s *Store
}

func (l *lockedUsers) inner() *userRepo {
	return &userRepo{newTxRepos(l.s.st, l.s.now)}
}

func (l *lockedUsers) Create(ctx context.Context, user *model.User) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().Create(ctx, user)
}

func (l *lockedUsers) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().FindByID(ctx, userID)
}

func (l *lockedUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().FindByEmail(ctx, email)
}

func (l *lockedUsers) List(ctx context.Context) ([]model.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().List(ctx)
}

func (l *lockedUsers) Update(ctx context.Context, user *model.User) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().Update(ctx, user)
}

func (l *lockedUsers) IncrementTokenVersion(ctx context.Context, userID int64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().IncrementTokenVersion(ctx, userID)
}

func (l *lockedUsers) Delete(ctx context.Context, userID int64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.inner().Delete(ctx, userID)
}
