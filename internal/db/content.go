package db

import (
	"time"

	"gorm.io/gorm"
)

// 稿件生命周期状态。写手的发布意图只能到 pending，published 需要审核。
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// Content 定义了稿件模型
type Content struct {
	gorm.Model
	Title         string `gorm:"not null"`
	Body          string `gorm:"type:text"`
	Excerpt       string `gorm:"type:text"`
	SocialSummary string
	ImageRef      string
	Status        string `gorm:"index;not null;default:draft"`
	AuthorID      uint   `gorm:"index"`
	Author        User
	PublishedAt   *time.Time
}

// ValidStatus 判断给定字符串是否为合法的稿件状态。
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}
