package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/service"
)

// SyncContentTerms 把稿件的 channel/topic/keyword 字段同步为词条关联。
func (a *API) SyncContentTerms(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Channel string `json:"channel"`
		Topic   string `json:"topic"`
		Keyword string `json:"keyword"`
	}
	if !bindJSON(c, &payload, "invalid term payload") {
		return
	}

	content, err := a.content.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actor := currentActor(c)
	if !db.IsReviewer(actor.Role) && content.AuthorID != actor.ID {
		respondServiceError(c, service.ErrContentNotFound)
		return
	}

	result, err := a.taxonomy.Sync(id, service.TermFields{
		Channel: payload.Channel,
		Topic:   payload.Topic,
		Keyword: payload.Keyword,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListTerms 返回词条使用统计，可按分类维度过滤。
func (a *API) ListTerms(c *gin.Context) {
	usages, err := a.terms.Usage(c.Query("taxonomy"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type termView struct {
		TermTaxonomyID uint   `json:"termTaxonomyId"`
		Name           string `json:"name"`
		Slug           string `json:"slug"`
		Taxonomy       string `json:"taxonomy"`
		Count          int64  `json:"count"`
	}

	views := make([]termView, 0, len(usages))
	for _, usage := range usages {
		views = append(views, termView{
			TermTaxonomyID: usage.TermTaxonomyID,
			Name:           usage.Name,
			Slug:           usage.Slug,
			Taxonomy:       usage.Taxonomy,
			Count:          usage.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{"terms": views})
}
