package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTermNameRequired = errors.New("term name is required")
	ErrUnknownTaxonomy  = errors.New("unknown taxonomy")
	ErrTermNotFound     = errors.New("term taxonomy not found")
)

// TermService 是词条存储层：名称到词条、词条到分类维度的查建，
// 以及稿件关联行的条件写入。计数只在关联行真正新建时加一。
type TermService struct {
	db *gorm.DB
}

// TermUsage 描述某分类维度下词条的使用次数
type TermUsage struct {
	TermTaxonomyID uint
	Name           string
	Slug           string
	Taxonomy       string
	Count          int64
}

// NewTermService creates a TermService instance.
func NewTermService(gdb *gorm.DB) *TermService {
	return &TermService{db: gdb}
}

var (
	slugStripPattern      = regexp.MustCompile(`[^a-z0-9\s-]+`)
	slugWhitespacePattern = regexp.MustCompile(`\s+`)
)

// Slugify 由名称确定性地派生 URL 安全的 slug：小写、剔除
// [a-z0-9\s-] 之外的字符、连续空白折叠为单个连字符。
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugWhitespacePattern.ReplaceAllString(slug, "-")
	return slug
}

func validTaxonomy(taxonomy string) bool {
	switch taxonomy {
	case db.TaxonomyCategory, db.TaxonomyNewstopic, db.TaxonomyTag:
		return true
	}
	return false
}

// FindOrCreate 返回 (name, taxonomy) 对应的 TermTaxonomy，缺失时创建。
// 同名词条在不同分类维度下是相互独立的行，Term 行按名称共享。
// 返回值第二项表示 TermTaxonomy 是否为本次新建。
func (s *TermService) FindOrCreate(name, taxonomy string) (*db.TermTaxonomy, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrTermNameRequired
	}
	if !validTaxonomy(taxonomy) {
		return nil, false, ErrUnknownTaxonomy
	}

	var tt db.TermTaxonomy
	createdNew := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var term db.Term
		if err := tx.Where("name = ?", name).First(&term).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			term = db.Term{Name: name, Slug: Slugify(name)}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&term).Error; err != nil {
				return err
			}
			if term.ID == 0 {
				// 并发创建同名词条时落到已有行
				if err := tx.Where("name = ?", name).First(&term).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Where("term_id = ? AND taxonomy = ?", term.ID, taxonomy).First(&tt).Error; err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tt = db.TermTaxonomy{TermID: term.ID, Taxonomy: taxonomy}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tt)
		if result.Error != nil {
			return result.Error
		}
		if tt.ID == 0 {
			return tx.Where("term_id = ? AND taxonomy = ?", term.ID, taxonomy).First(&tt).Error
		}

		createdNew = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &tt, createdNew, nil
}

// LinkContent 把稿件关联到 TermTaxonomy。关联行已存在时不做任何事；
// 新建关联行时在同一事务内把计数加一，保证计数恒等于存量关联行数。
func (s *TermService) LinkContent(contentID, termTaxonomyID uint) (bool, error) {
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		relationship := db.TermRelationship{ContentID: contentID, TermTaxonomyID: termTaxonomyID}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&relationship)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		// 单条表达式更新，不走读改写，避免并发丢失更新
		update := tx.Model(&db.TermTaxonomy{}).
			Where("id = ?", termTaxonomyID).
			UpdateColumn("count", gorm.Expr("count + ?", 1))
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return ErrTermNotFound
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// RelationshipExists 查询稿件与 TermTaxonomy 的关联行是否存在。
func (s *TermService) RelationshipExists(contentID, termTaxonomyID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.TermRelationship{}).
		Where("content_id = ? AND term_taxonomy_id = ?", contentID, termTaxonomyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Usage 返回指定分类维度下的词条及其使用计数，按计数降序排列。
// taxonomy 为空时返回全部维度。
func (s *TermService) Usage(taxonomy string) ([]TermUsage, error) {
	if taxonomy != "" && !validTaxonomy(taxonomy) {
		return nil, ErrUnknownTaxonomy
	}

	query := s.db.Table("term_taxonomies").
		Select("term_taxonomies.id AS term_taxonomy_id, terms.name, terms.slug, term_taxonomies.taxonomy, term_taxonomies.count").
		Joins("JOIN terms ON terms.id = term_taxonomies.term_id").
		Where("term_taxonomies.deleted_at IS NULL").
		Order("term_taxonomies.count desc").
		Order("terms.name asc").
		Order("term_taxonomies.id asc")

	if taxonomy != "" {
		query = query.Where("term_taxonomies.taxonomy = ?", taxonomy)
	}

	var usages []TermUsage
	if err := query.Scan(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}
