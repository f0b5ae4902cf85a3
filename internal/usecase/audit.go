package usecase

import (
	"context"
	"encoding/json"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
)

// 変更前後のスナップショット（キー→値）
type auditSnapshot map[string]interface{}

// 監査ログ（管理者操作）をトランザクション内で1件書く。
// before/after はJSONにして保存する（nilなら空）。
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actor model.Identity,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before auditSnapshot,
	after auditSnapshot,
) error {
	beforeJSON, err := snapshotJSON(before)
	if err != nil {
		return err
	}
	afterJSON, err := snapshotJSON(after)
	if err != nil {
		return err
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
	}); err != nil {
		return dbError(err)
	}
	return nil
}

func snapshotJSON(s auditSnapshot) (string, error) {
	if s == nil {
		return "", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", internalError(err)
	}
	return string(b), nil
}
