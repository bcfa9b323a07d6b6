package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/service"
)

type reviewPayload struct {
	Action        string  `json:"action"`
	Feedback      string  `json:"feedback"`
	Title         *string `json:"title"`
	Body          *string `json:"body"`
	Excerpt       *string `json:"excerpt"`
	SocialSummary *string `json:"socialSummary"`
}

func (p reviewPayload) overrides() *service.ReviewOverrides {
	if p.Title == nil && p.Body == nil && p.Excerpt == nil && p.SocialSummary == nil {
		return nil
	}
	return &service.ReviewOverrides{
		Title:         p.Title,
		Body:          p.Body,
		Excerpt:       p.Excerpt,
		SocialSummary: p.SocialSummary,
	}
}

// ReviewContent 对单篇稿件执行审核动作，可顺带修改字段。
func (a *API) ReviewContent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload reviewPayload
	if !bindJSON(c, &payload, "invalid review payload") {
		return
	}

	content, err := a.reviews.Review(currentActor(c), id, payload.Action, payload.Feedback, payload.overrides())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": content.ID, "status": content.Status})
}

// BulkReview 批量审核，逐篇隔离失败。
func (a *API) BulkReview(c *gin.Context) {
	var payload struct {
		IDs      []uint `json:"ids"`
		Action   string `json:"action"`
		Feedback string `json:"feedback"`
	}
	if !bindJSON(c, &payload, "invalid bulk review payload") {
		return
	}

	result, err := a.reviews.BulkReview(currentActor(c), payload.IDs, payload.Action, payload.Feedback)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReviewQueue 返回待审核队列，支持按作者过滤与分页。
func (a *API) ReviewQueue(c *gin.Context) {
	filter := service.ReviewQueueFilter{}
	if raw := strings.TrimSpace(c.Query("author_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.AuthorID = uint(parsed)
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PerPage = perPage
	}

	result, err := a.reviews.Queue(currentActor(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      result.Items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// ContentHistory 返回稿件的审核台账，作者用它查看"为什么被驳回"。
func (a *API) ContentHistory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
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

	records, err := a.ledger.History(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type historyEntry struct {
		Action          string `json:"action"`
		ReviewerID      uint   `json:"reviewerId"`
		Reviewer        string `json:"reviewer,omitempty"`
		Feedback        string `json:"feedback,omitempty"`
		FieldsChanged   string `json:"fieldsChanged,omitempty"`
		ContentModified bool   `json:"contentModified"`
		CreatedAt       string `json:"createdAt"`
	}

	entries := make([]historyEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry{
			Action:          record.Action,
			ReviewerID:      record.ReviewerID,
			Reviewer:        record.Reviewer.Username,
			Feedback:        record.Feedback,
			FieldsChanged:   record.FieldsChanged,
			ContentModified: record.ContentModified,
			CreatedAt:       record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
