package usecase

import "football-store/internal/domain/model"

// 呼び出したユーザー（middlewareがJWTから作る）
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// 本人か管理者
func (a Actor) CanAccess(ownerID int64) bool {
	return a.IsAdmin() || (a.UserID > 0 && a.UserID == ownerID)
}

func requireActor(a Actor) error {
	if a.UserID <= 0 {
		return NewAppError(KindUnauthorized, "unauthorized")
	}
	return nil
}

func requireAdmin(a Actor) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return NewAppError(KindForbidden, "admin only")
	}
	return nil
}
