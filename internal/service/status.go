package service

import "github.com/newsdesk/internal/db"

// 审核动作。edit 不是审核动作，只作为台账记录的动作名使用。
const (
	ActionApprove        = "approve"
	ActionReject         = "reject"
	ActionRequestChanges = "request-changes"
	ActionEdit           = "edit"
)

// writerTransitions 以声明式表格列出 writer 角色允许的状态迁移。
// published 只出现在目标 pending 的行里：写手改动已发布稿件必须重新送审。
var writerTransitions = map[string][]string{
	db.StatusDraft:     {db.StatusDraft, db.StatusPending},
	db.StatusPending:   {db.StatusDraft, db.StatusPending},
	db.StatusRejected:  {db.StatusDraft, db.StatusPending},
	db.StatusPublished: {db.StatusPending},
}

// CanTransition 判断角色能否把稿件状态从 from 迁移到 to。
// admin/superadmin 不受表格限制，可直接设置四种状态中的任意一种。
func CanTransition(role, from, to string) bool {
	if !db.ValidStatus(to) {
		return false
	}
	if db.IsReviewer(role) {
		return true
	}
	if role != db.RoleWriter {
		return false
	}
	for _, allowed := range writerTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// reviewOutcome 把审核动作映射到目标状态，并给出允许的源状态集合。
// approve/reject 只作用于 pending，request-changes 额外允许 draft。
func reviewOutcome(action string) (target string, sources []string, ok bool) {
	switch action {
	case ActionApprove:
		return db.StatusPublished, []string{db.StatusPending}, true
	case ActionReject:
		return db.StatusRejected, []string{db.StatusPending}, true
	case ActionRequestChanges:
		return db.StatusDraft, []string{db.StatusPending, db.StatusDraft}, true
	}
	return "", nil, false
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
