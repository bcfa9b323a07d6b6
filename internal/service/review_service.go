package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/newsdesk/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrUnknownAction = errors.New("unknown review action")

// ReviewService 执行审核动作并维护审核队列。
// 状态迁移和对应的台账记录在同一事务内提交。
type ReviewService struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewReviewService creates a ReviewService instance.
func NewReviewService(gdb *gorm.DB, log zerolog.Logger) *ReviewService {
	return &ReviewService{db: gdb, log: log.With().Str("service", "review").Logger()}
}

// ReviewOverrides 是审核时顺带修改的字段，nil 表示不触碰。
type ReviewOverrides struct {
	Title         *string
	Body          *string
	Excerpt       *string
	SocialSummary *string
}

// ReviewQueueFilter describes filters for the pending review queue.
type ReviewQueueFilter struct {
	AuthorID uint
	Page     int
	PerPage  int
}

// ReviewQueueResult aggregates paginated queue data.
type ReviewQueueResult struct {
	Items      []db.Content
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// BulkFailure 记录批量审核中单个稿件的失败原因。
type BulkFailure struct {
	ContentID uint   `json:"id"`
	Reason    string `json:"reason"`
}

// BulkReviewResult 汇总批量审核结果，成功与失败互不影响。
type BulkReviewResult struct {
	Succeeded []uint        `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// Review 对单篇稿件执行审核动作：approve→published、reject→rejected、
// request-changes→draft。仅限 admin/superadmin；稿件不在可审核状态时
// 统一报告 not found，不向无权限的调用方泄露实际状态。
func (s *ReviewService) Review(actor Actor, contentID uint, action, feedback string, overrides *ReviewOverrides) (*db.Content, error) {
	if !db.IsReviewer(actor.Role) {
		return nil, ErrPermissionDenied
	}

	target, sources, ok := reviewOutcome(action)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	feedback = strings.TrimSpace(feedback)
	// 打回修改必须告诉作者改什么
	if action == ActionRequestChanges && feedback == "" {
		return nil, fmt.Errorf("%w: request-changes requires feedback", ErrValidation)
	}

	var content db.Content
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&content, contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}
		if !statusIn(content.Status, sources) {
			// 状态不合格与不存在对调用方不可区分
			return ErrContentNotFound
		}

		before := content
		applyOverrides(&content, overrides)

		content.Status = target
		if target == db.StatusPublished && before.Status != db.StatusPublished {
			now := time.Now()
			content.PublishedAt = &now
		}

		if err := tx.Save(&content).Error; err != nil {
			return err
		}

		changed := diffFields(&before, &content)
		return appendRecord(tx, &db.ReviewRecord{
			ContentID:       content.ID,
			ReviewerID:      actor.ID,
			Action:          action,
			Feedback:        feedback,
			FieldsChanged:   strings.Join(changed, ","),
			ContentModified: contentFieldsChanged(changed),
		})
	}); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("content_id", content.ID).
		Uint("reviewer_id", actor.ID).
		Str("action", action).
		Str("status", content.Status).
		Msg("content reviewed")

	return &content, nil
}

// BulkReview 批量审核，逐篇独立处理：单篇失败只进入 Failed 列表，
// 不回滚也不阻塞其余稿件。
func (s *ReviewService) BulkReview(actor Actor, contentIDs []uint, action, feedback string) (*BulkReviewResult, error) {
	if !db.IsReviewer(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if _, _, ok := reviewOutcome(action); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	result := &BulkReviewResult{Succeeded: []uint{}, Failed: []BulkFailure{}}
	for _, id := range contentIDs {
		if _, err := s.Review(actor, id, action, feedback, nil); err != nil {
			s.log.Warn().Uint("content_id", id).Str("action", action).Err(err).Msg("bulk review item failed")
			result.Failed = append(result.Failed, BulkFailure{ContentID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result, nil
}

// Queue 返回待审核稿件队列，可按作者过滤，按提交时间先后排序。
func (s *ReviewService) Queue(actor Actor, filter ReviewQueueFilter) (*ReviewQueueResult, error) {
	if !db.IsReviewer(actor.Role) {
		return nil, ErrPermissionDenied
	}

	result := &ReviewQueueResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	query := s.db.Model(&db.Content{}).Where("status = ?", db.StatusPending)
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var items []db.Content
	dataQuery := s.db.Preload("Author").Where("status = ?", db.StatusPending)
	if filter.AuthorID != 0 {
		dataQuery = dataQuery.Where("author_id = ?", filter.AuthorID)
	}
	if err := dataQuery.
		Order("created_at asc").
		Order("id asc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Items = items
	return result, nil
}

// OwnPending 返回某作者自己的待审核稿件。
func (s *ReviewService) OwnPending(authorID uint) ([]db.Content, error) {
	var items []db.Content
	if err := s.db.Where("status = ? AND author_id = ?", db.StatusPending, authorID).
		Order("updated_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applyOverrides(content *db.Content, overrides *ReviewOverrides) {
	if overrides == nil {
		return
	}
	if overrides.Title != nil {
		content.Title = strings.TrimSpace(*overrides.Title)
	}
	if overrides.Body != nil {
		content.Body = sanitizeBody(*overrides.Body)
	}
	if overrides.Excerpt != nil {
		content.Excerpt = strings.TrimSpace(*overrides.Excerpt)
	}
	if overrides.SocialSummary != nil {
		content.SocialSummary = strings.TrimSpace(*overrides.SocialSummary)
	}
}
