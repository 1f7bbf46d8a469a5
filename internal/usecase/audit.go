package usecase

import (
	"context"
	"encoding/json"

	"football-store/internal/domain/model"
	repo "football-store/internal/repository"
)

// 監査ログを同じTxで書く
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actorID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before any,
	after any,
) error {
	beforeJSON, err := toJSON(before)
	if err != nil {
		return internal(err, "marshal audit before")
	}
	afterJSON, err := toJSON(after)
	if err != nil {
		return internal(err, "marshal audit after")
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
	}); err != nil {
		return internal(err, "create audit log")
	}
	return nil
}

func toJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type AuditLogUsecase struct {
	tx repo.TransactionManager
}

func NewAuditLogUsecase(tx repo.TransactionManager) *AuditLogUsecase {
	return &AuditLogUsecase{tx: tx}
}

// 管理者のみ
func (u *AuditLogUsecase) List(ctx context.Context, actor Actor, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var logs []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		logs, err = r.AuditLogs().List(ctx, f)
		if err != nil {
			return internal(err, "list audit logs")
		}
		return nil
	})
	return logs, err
}
