package db

import (
	"time"

	"gorm.io/gorm"
)

// 词条可归属的三种分类维度。channel 字段写入 category，topic 写入
// newstopic，keyword 逗号分隔后逐个写入 tag。
const (
	TaxonomyCategory  = "category"
	TaxonomyNewstopic = "newstopic"
	TaxonomyTag       = "tag"
)

// Term 定义了词条模型，同一名称在不同分类维度下共享同一行。
type Term struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null"`
	Slug string `gorm:"index;not null"`
}

// TermTaxonomy 将词条绑定到具体分类维度，并维护使用计数。
// Count 是"多少篇稿件使用该词条"的唯一权威来源，必须与
// TermRelationship 的存量行数保持一致。
type TermTaxonomy struct {
	gorm.Model
	TermID   uint   `gorm:"uniqueIndex:idx_term_taxonomy;not null"`
	Term     Term
	Taxonomy string `gorm:"uniqueIndex:idx_term_taxonomy;not null"`
	Count    int64  `gorm:"not null;default:0"`
}

// TermRelationship 记录一篇稿件与一个 TermTaxonomy 的关联，复合主键保证
// 不会出现重复关联行。
type TermRelationship struct {
	ContentID      uint `gorm:"primaryKey;autoIncrement:false"`
	TermTaxonomyID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt      time.Time
}

// TableName 指定自定义表名。
func (TermRelationship) TableName() string {
	return "term_relationships"
}
