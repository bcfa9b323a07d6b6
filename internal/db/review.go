package db

import "gorm.io/gorm"

// ReviewRecord 是稿件审核与编辑动作的只追加审计记录。
// 服务层只提供追加和按稿件查询，创建之后不再修改或删除。
type ReviewRecord struct {
	gorm.Model
	ContentID       uint `gorm:"index;not null"`
	Content         Content
	ReviewerID      uint `gorm:"index;not null"`
	Reviewer        User
	Action          string `gorm:"not null"`
	Feedback        string `gorm:"type:text"`
	FieldsChanged   string
	ContentModified bool
}

// TableName 指定自定义表名。
func (ReviewRecord) TableName() string {
	return "review_records"
}
