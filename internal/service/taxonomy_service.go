package service

import (
	"errors"
	"strings"

	"github.com/newsdesk/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// TermFields 是来稿携带的三个自由文本分类字段。
// Channel 和 Topic 各是单个标签，Keyword 是逗号分隔的标签列表。
type TermFields struct {
	Channel string
	Topic   string
	Keyword string
}

// TermLink 描述一次同步中命中的 (词条, 分类维度) 关联。
type TermLink struct {
	TermTaxonomyID uint   `json:"termTaxonomyId"`
	Name           string `json:"name"`
	Taxonomy       string `json:"taxonomy"`
}

// LabelFailure 记录单个标签的同步失败，不影响同一次调用中的其余标签。
type LabelFailure struct {
	Name     string `json:"name"`
	Taxonomy string `json:"taxonomy"`
	Reason   string `json:"reason"`
}

// SyncResult 汇总一次同步的结果：新建关联、已存在而跳过、失败明细。
type SyncResult struct {
	Added   []TermLink     `json:"added"`
	Skipped []TermLink     `json:"skipped"`
	Failed  []LabelFailure `json:"failed"`
}

// TaxonomyService 把来稿的 channel/topic/keyword 字段同步为词条关联。
// 重复调用是幂等的：已有关联被跳过，计数不会漂移。
type TaxonomyService struct {
	db    *gorm.DB
	terms *TermService
	log   zerolog.Logger
}

// NewTaxonomyService creates a TaxonomyService instance.
func NewTaxonomyService(gdb *gorm.DB, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{
		db:    gdb,
		terms: NewTermService(gdb),
		log:   log.With().Str("service", "taxonomy").Logger(),
	}
}

type taxonomyLabel struct {
	name     string
	taxonomy string
}

// collectLabels 把三个字段拆解为 (标签, 分类维度) 序列。
// keyword 按逗号切分并去空白，空标签整体忽略，同一调用内重复对去重。
func collectLabels(fields TermFields) []taxonomyLabel {
	var labels []taxonomyLabel

	if channel := strings.TrimSpace(fields.Channel); channel != "" {
		labels = append(labels, taxonomyLabel{name: channel, taxonomy: db.TaxonomyCategory})
	}
	if topic := strings.TrimSpace(fields.Topic); topic != "" {
		labels = append(labels, taxonomyLabel{name: topic, taxonomy: db.TaxonomyNewstopic})
	}
	for _, raw := range strings.Split(fields.Keyword, ",") {
		if keyword := strings.TrimSpace(raw); keyword != "" {
			labels = append(labels, taxonomyLabel{name: keyword, taxonomy: db.TaxonomyTag})
		}
	}

	seen := make(map[taxonomyLabel]struct{}, len(labels))
	deduped := labels[:0]
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		deduped = append(deduped, label)
	}

	return deduped
}

// Sync 为稿件同步词条关联。每个标签独立处理，单个标签的失败只进入
// Failed 列表，不会中断其余标签，也不会让整次调用报错。
func (s *TaxonomyService) Sync(contentID uint, fields TermFields) (*SyncResult, error) {
	var content db.Content
	if err := s.db.Select("id").First(&content, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	result := &SyncResult{
		Added:   []TermLink{},
		Skipped: []TermLink{},
		Failed:  []LabelFailure{},
	}

	for _, label := range collectLabels(fields) {
		termTaxonomy, _, err := s.terms.FindOrCreate(label.name, label.taxonomy)
		if err != nil {
			s.log.Warn().
				Uint("content_id", contentID).
				Str("label", label.name).
				Str("taxonomy", label.taxonomy).
				Err(err).
				Msg("term find-or-create failed")
			result.Failed = append(result.Failed, LabelFailure{
				Name:     label.name,
				Taxonomy: label.taxonomy,
				Reason:   err.Error(),
			})
			continue
		}

		created, err := s.terms.LinkContent(contentID, termTaxonomy.ID)
		if err != nil {
			s.log.Warn().
				Uint("content_id", contentID).
				Str("label", label.name).
				Str("taxonomy", label.taxonomy).
				Err(err).
				Msg("term link failed")
			result.Failed = append(result.Failed, LabelFailure{
				Name:     label.name,
				Taxonomy: label.taxonomy,
				Reason:   err.Error(),
			})
			continue
		}

		link := TermLink{TermTaxonomyID: termTaxonomy.ID, Name: label.name, Taxonomy: label.taxonomy}
		if created {
			result.Added = append(result.Added, link)
		} else {
			result.Skipped = append(result.Skipped, link)
		}
	}

	return result, nil
}
