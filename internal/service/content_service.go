package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newsdesk/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflicting update in progress")
)

// Actor 是上游认证中间件注入的请求者身份，核心逻辑直接信任它。
type Actor struct {
	ID   uint
	Role string
}

// ContentInput represents fields accepted when creating or updating content.
type ContentInput struct {
	Title         string
	Body          string
	Excerpt       string
	SocialSummary string
	ImageRef      string
	Intent        string // 目标状态，空表示沿用当前状态
	Terms         *TermFields
}

// AutosaveInput 只覆盖自动保存允许触碰的字段。
type AutosaveInput struct {
	Title   string
	Body    string
	Excerpt string
}

// AutosaveResult 返回自动保存的落库时间与修订令牌。
type AutosaveResult struct {
	ContentID     uint      `json:"contentId"`
	RevisionToken string    `json:"revisionToken"`
	SavedAt       time.Time `json:"savedAt"`
}

// SubmitResult aggregates the saved content and its term synchronization.
type SubmitResult struct {
	Content  *db.Content
	TermSync *SyncResult
}

// ContentService 驱动稿件生命周期：状态机、校验、正文清洗，
// 并在保存后同步词条关联。
type ContentService struct {
	db       *gorm.DB
	taxonomy *TaxonomyService
	log      zerolog.Logger
}

// NewContentService creates a ContentService instance.
func NewContentService(gdb *gorm.DB, log zerolog.Logger) *ContentService {
	return &ContentService{
		db:       gdb,
		taxonomy: NewTaxonomyService(gdb, log),
		log:      log.With().Str("service", "content").Logger(),
	}
}

// Get fetches a content item by id with its author preloaded.
func (s *ContentService) Get(id uint) (*db.Content, error) {
	var content db.Content
	if err := s.db.Preload("Author").First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// Submit 新建或更新稿件并计算新状态。contentID 为 0 表示新建。
// 状态变更、字段保存与台账记录在同一事务内提交；词条同步在事务
// 提交后执行，允许部分失败。
func (s *ContentService) Submit(actor Actor, contentID uint, input ContentInput) (*SubmitResult, error) {
	if actor.Role != db.RoleWriter && !db.IsReviewer(actor.Role) {
		return nil, ErrPermissionDenied
	}

	isNew := contentID == 0
	var existing db.Content
	if !isNew {
		if err := s.db.First(&existing, contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrContentNotFound
			}
			return nil, err
		}
		if !db.IsReviewer(actor.Role) && existing.AuthorID != actor.ID {
			return nil, ErrPermissionDenied
		}
	}

	current := db.StatusDraft
	if !isNew {
		current = existing.Status
	}

	target, err := resolveSubmitStatus(actor.Role, current, input.Intent)
	if err != nil {
		return nil, err
	}

	if err := validateForStatus(input, target); err != nil {
		return nil, err
	}

	before := existing
	content := &existing
	if isNew {
		content = &db.Content{AuthorID: actor.ID}
	}

	content.Title = strings.TrimSpace(input.Title)
	content.Body = sanitizeBody(input.Body)
	content.Excerpt = strings.TrimSpace(input.Excerpt)
	content.SocialSummary = strings.TrimSpace(input.SocialSummary)
	content.ImageRef = strings.TrimSpace(input.ImageRef)
	content.Status = target

	// 草稿允许缺摘要，从正文自动派生一份；送审和发布仍要求显式摘要
	if content.Excerpt == "" && target == db.StatusDraft {
		content.Excerpt = deriveExcerpt(content.Body, defaultExcerptLimit)
	}

	if target == db.StatusPublished && before.Status != db.StatusPublished {
		now := time.Now()
		content.PublishedAt = &now
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(content).Error; err != nil {
			return err
		}

		// 编辑者不是原作者时才进台账，作者保存自己的稿件不留记录
		if !isNew && actor.ID != content.AuthorID {
			changed := diffFields(&before, content)
			return appendRecord(tx, &db.ReviewRecord{
				ContentID:       content.ID,
				ReviewerID:      actor.ID,
				Action:          ActionEdit,
				FieldsChanged:   strings.Join(changed, ","),
				ContentModified: contentFieldsChanged(changed),
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}

	result := &SubmitResult{Content: content}
	if input.Terms != nil {
		sync, err := s.taxonomy.Sync(content.ID, *input.Terms)
		if err != nil {
			// 稿件已落库，词条同步失败不回滚整个请求
			s.log.Error().Uint("content_id", content.ID).Err(err).Msg("term sync failed")
		} else {
			result.TermSync = sync
		}
	}

	return result, nil
}

// Autosave 只更新标题、正文、摘要与修改时间，从不改动状态。
// 条件更新保证终态审核先落库时自动保存会失败而不是覆盖。
func (s *ContentService) Autosave(actor Actor, contentID uint, input AutosaveInput) (*AutosaveResult, error) {
	var content db.Content
	if err := s.db.First(&content, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	if !db.IsReviewer(actor.Role) && content.AuthorID != actor.ID {
		return nil, ErrPermissionDenied
	}

	updates := map[string]interface{}{
		"title":   strings.TrimSpace(input.Title),
		"body":    sanitizeBody(input.Body),
		"excerpt": strings.TrimSpace(input.Excerpt),
	}

	result := s.db.Model(&db.Content{}).
		Where("id = ? AND status IN ?", contentID, []string{db.StatusDraft, db.StatusPending}).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: content is no longer editable", ErrConflict)
	}

	return &AutosaveResult{
		ContentID:     contentID,
		RevisionToken: uuid.NewString(),
		SavedAt:       time.Now(),
	}, nil
}

// resolveSubmitStatus 计算本次提交的目标状态。写手的 published 意图
// 一律降级为 pending；写手改动自己已发布的稿件强制回到 pending。
func resolveSubmitStatus(role, current, intent string) (string, error) {
	target := strings.TrimSpace(intent)

	if target == "" {
		target = current
		if role == db.RoleWriter && current == db.StatusPublished {
			target = db.StatusPending
		}
	} else {
		if !db.ValidStatus(target) {
			return "", fmt.Errorf("%w: unknown status %q", ErrValidation, target)
		}
		if role == db.RoleWriter && target == db.StatusPublished {
			target = db.StatusPending
		}
	}

	if !CanTransition(role, current, target) {
		return "", ErrPermissionDenied
	}

	return target, nil
}

// validateForStatus 校验目标状态要求的字段。草稿只要求标题，
// 送审与发布还要求描述摘要和社交摘要。
func validateForStatus(input ContentInput, target string) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if target == db.StatusPending || target == db.StatusPublished {
		if strings.TrimSpace(input.Excerpt) == "" {
			return fmt.Errorf("%w: description is required for publishing", ErrValidation)
		}
		if strings.TrimSpace(input.SocialSummary) == "" {
			return fmt.Errorf("%w: social summary is required for publishing", ErrValidation)
		}
	}
	return nil
}

// diffFields 汇总前后两个版本之间发生变化的字段名，供台账记录。
func diffFields(before, after *db.Content) []string {
	var changed []string
	if before.Title != after.Title {
		changed = append(changed, "title")
	}
	if before.Body != after.Body {
		changed = append(changed, "body")
	}
	if before.Excerpt != after.Excerpt {
		changed = append(changed, "excerpt")
	}
	if before.SocialSummary != after.SocialSummary {
		changed = append(changed, "social_summary")
	}
	if before.ImageRef != after.ImageRef {
		changed = append(changed, "image_ref")
	}
	if before.Status != after.Status {
		changed = append(changed, "status")
	}
	return changed
}

func contentFieldsChanged(changed []string) bool {
	for _, field := range changed {
		if field != "status" {
			return true
		}
	}
	return false
}
