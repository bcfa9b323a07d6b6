package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/newsdesk/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTermServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:term-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Term{}, &db.TermTaxonomy{}, &db.TermRelationship{}, &db.Content{}, &db.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "Bisnis", want: "bisnis"},
		{name: "whitespace to hyphen", input: "Pemilu 2024", want: "pemilu-2024"},
		{name: "strip punctuation", input: "Berita & Opini!", want: "berita-opini"},
		{name: "collapse runs", input: "a   b\tc", want: "a-b-c"},
		{name: "keeps hyphen", input: "e-sport", want: "e-sport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	first := Slugify("Tech News 2024")
	second := Slugify("Tech News 2024")
	if first != second {
		t.Fatalf("same name produced two slugs: %q vs %q", first, second)
	}
}

func TestFindOrCreateSharesTermAcrossTaxonomies(t *testing.T) {
	gdb, cleanup := setupTermServiceTestDB(t)
	defer cleanup()

	svc := NewTermService(gdb)

	category, created, err := svc.FindOrCreate("Tech", db.TaxonomyCategory)
	if err != nil {
		t.Fatalf("find-or-create category: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create the term taxonomy")
	}

	tag, created, err := svc.FindOrCreate("Tech", db.TaxonomyTag)
	if err != nil {
		t.Fatalf("find-or-create tag: %v", err)
	}
	if !created {
		t.Fatal("expected the tag row to be created independently")
	}

	if category.ID == tag.ID {
		t.Fatal("category and tag must be distinct term taxonomy rows")
	}
	if category.TermID != tag.TermID {
		t.Fatal("same name should share one term row across taxonomies")
	}

	var termCount int64
	if err := gdb.Model(&db.Term{}).Count(&termCount).Error; err != nil {
		t.Fatalf("count terms: %v", err)
	}
	if termCount != 1 {
		t.Fatalf("expected 1 term row, got %d", termCount)
	}
}

func TestFindOrCreateIsIdempotent(t *testing.T) {
	gdb, cleanup := setupTermServiceTestDB(t)
	defer cleanup()

	svc := NewTermService(gdb)

	first, created, err := svc.FindOrCreate("Olahraga", db.TaxonomyCategory)
	if err != nil {
		t.Fatalf("first find-or-create: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create")
	}

	second, created, err := svc.FindOrCreate("Olahraga", db.TaxonomyCategory)
	if err != nil {
		t.Fatalf("second find-or-create: %v", err)
	}
	if created {
		t.Fatal("expected second call to reuse the row")
	}
	if first.ID != second.ID {
		t.Fatalf("expected same row, got %d and %d", first.ID, second.ID)
	}
}

func TestFindOrCreateValidatesInput(t *testing.T) {
	gdb, cleanup := setupTermServiceTestDB(t)
	defer cleanup()

	svc := NewTermService(gdb)

	if _, _, err := svc.FindOrCreate("   ", db.TaxonomyTag); err != ErrTermNameRequired {
		t.Fatalf("expected ErrTermNameRequired, got %v", err)
	}
	if _, _, err := svc.FindOrCreate("Tech", "series"); err != ErrUnknownTaxonomy {
		t.Fatalf("expected ErrUnknownTaxonomy, got %v", err)
	}
}

func TestLinkContentIncrementsCountExactlyOnce(t *testing.T) {
	gdb, cleanup := setupTermServiceTestDB(t)
	defer cleanup()

	svc := NewTermService(gdb)

	termTaxonomy, _, err := svc.FindOrCreate("naruto", db.TaxonomyTag)
	if err != nil {
		t.Fatalf("find-or-create: %v", err)
	}
	if termTaxonomy.Count != 0 {
		t.Fatalf("new term taxonomy should start with count 0, got %d", termTaxonomy.Count)
	}

	created, err := svc.LinkContent(1, termTaxonomy.ID)
	if err != nil {
		t.Fatalf("first link: %v", err)
	}
	if !created {
		t.Fatal("expected first link to create the relationship")
	}

	created, err = svc.LinkContent(1, termTaxonomy.ID)
	if err != nil {
		t.Fatalf("second link: %v", err)
	}
	if created {
		t.Fatal("duplicate link must be a no-op")
	}

	var reloaded db.TermTaxonomy
	if err := gdb.First(&reloaded, termTaxonomy.ID).Error; err != nil {
		t.Fatalf("reload term taxonomy: %v", err)
	}
	if reloaded.Count != 1 {
		t.Fatalf("expected count 1 after duplicate link, got %d", reloaded.Count)
	}

	// 不同稿件关联同一词条，各自加一
	if _, err := svc.LinkContent(2, termTaxonomy.ID); err != nil {
		t.Fatalf("link second content: %v", err)
	}
	if err := gdb.First(&reloaded, termTaxonomy.ID).Error; err != nil {
		t.Fatalf("reload term taxonomy: %v", err)
	}
	if reloaded.Count != 2 {
		t.Fatalf("expected count 2, got %d", reloaded.Count)
	}

	var relationships int64
	if err := gdb.Model(&db.TermRelationship{}).
		Where("term_taxonomy_id = ?", termTaxonomy.ID).
		Count(&relationships).Error; err != nil {
		t.Fatalf("count relationships: %v", err)
	}
	if relationships != reloaded.Count {
		t.Fatalf("count drifted: column says %d, rows say %d", reloaded.Count, relationships)
	}
}

func TestRelationshipExists(t *testing.T) {
	gdb, cleanup := setupTermServiceTestDB(t)
	defer cleanup()

	svc := NewTermService(gdb)

	termTaxonomy, _, err := svc.FindOrCreate("Elections", db.TaxonomyNewstopic)
	if err != nil {
		t.Fatalf("find-or-create: %v", err)
	}

	exists, err := svc.RelationshipExists(7, termTaxonomy.ID)
	if err != nil {
		t.Fatalf("relationship exists: %v", err)
	}
	if exists {
		t.Fatal("expected no relationship before linking")
	}

	if _, err := svc.LinkContent(7, termTaxonomy.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	exists, err = svc.RelationshipExists(7, termTaxonomy.ID)
	if err != nil {
		t.Fatalf("relationship exists: %v", err)
	}
	if !exists {
		t.Fatal("expected relationship after linking")
	}
}

func TestUsageFiltersAndOrders(t *testing.T) {
	gdb, cleanup := setupTermServiceTestDB(t)
	defer cleanup()

	svc := NewTermService(gdb)

	popular, _, err := svc.FindOrCreate("vote", db.TaxonomyTag)
	if err != nil {
		t.Fatalf("find-or-create: %v", err)
	}
	rare, _, err := svc.FindOrCreate("results", db.TaxonomyTag)
	if err != nil {
		t.Fatalf("find-or-create: %v", err)
	}
	if _, _, err := svc.FindOrCreate("News", db.TaxonomyCategory); err != nil {
		t.Fatalf("find-or-create: %v", err)
	}

	for contentID := uint(1); contentID <= 3; contentID++ {
		if _, err := svc.LinkContent(contentID, popular.ID); err != nil {
			t.Fatalf("link: %v", err)
		}
	}
	if _, err := svc.LinkContent(1, rare.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	usages, err := svc.Usage(db.TaxonomyTag)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usages) != 2 {
		t.Fatalf("expected 2 tag usages, got %d", len(usages))
	}
	if usages[0].Name != "vote" || usages[0].Count != 3 {
		t.Fatalf("unexpected first usage: %+v", usages[0])
	}
	if usages[1].Name != "results" || usages[1].Count != 1 {
		t.Fatalf("unexpected second usage: %+v", usages[1])
	}

	if _, err := svc.Usage("series"); err != ErrUnknownTaxonomy {
		t.Fatalf("expected ErrUnknownTaxonomy, got %v", err)
	}
}
