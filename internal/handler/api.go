package handler

import (
	"github.com/newsdesk/internal/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	log      zerolog.Logger
	content  *service.ContentService
	reviews  *service.ReviewService
	taxonomy *service.TaxonomyService
	terms    *service.TermService
	ledger   *service.LedgerService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, log zerolog.Logger) *API {
	return &API{
		db:       gdb,
		log:      log.With().Str("component", "handler").Logger(),
		content:  service.NewContentService(gdb, log),
		reviews:  service.NewReviewService(gdb, log),
		taxonomy: service.NewTaxonomyService(gdb, log),
		terms:    service.NewTermService(gdb),
		ledger:   service.NewLedgerService(gdb),
	}
}
