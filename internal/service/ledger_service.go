package service

import (
	"strings"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
)

// LedgerService 是审核台账的唯一入口：只追加、按稿件查询，
// 不存在更新或删除接口。被驳回稿件的"为什么"就靠这里回答。
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a LedgerService instance.
func NewLedgerService(gdb *gorm.DB) *LedgerService {
	return &LedgerService{db: gdb}
}

// appendRecord 在给定事务内落一条台账。审核与编辑流程在各自的事务里
// 调用它，保证状态变更与台账记录要么一起提交要么一起回滚。
func appendRecord(tx *gorm.DB, record *db.ReviewRecord) error {
	record.FieldsChanged = strings.TrimSpace(record.FieldsChanged)
	return tx.Create(record).Error
}

// Append 独立追加一条台账记录。
func (s *LedgerService) Append(contentID, actorID uint, action, feedback string, fieldsChanged []string, contentModified bool) (*db.ReviewRecord, error) {
	record := db.ReviewRecord{
		ContentID:       contentID,
		ReviewerID:      actorID,
		Action:          action,
		Feedback:        strings.TrimSpace(feedback),
		FieldsChanged:   strings.Join(fieldsChanged, ","),
		ContentModified: contentModified,
	}
	if err := appendRecord(s.db, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// History 按时间顺序返回稿件的全部台账记录。
func (s *LedgerService) History(contentID uint) ([]db.ReviewRecord, error) {
	var records []db.ReviewRecord
	if err := s.db.Preload("Reviewer").
		Where("content_id = ?", contentID).
		Order("created_at asc").
		Order("id asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
