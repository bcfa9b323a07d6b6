package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/service"
)

type contentPayload struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	Excerpt       string `json:"excerpt"`
	SocialSummary string `json:"socialSummary"`
	ImageRef      string `json:"imageRef"`
	Status        string `json:"status"`
	Channel       string `json:"channel"`
	Topic         string `json:"topic"`
	Keyword       string `json:"keyword"`
}

func (p contentPayload) toInput() service.ContentInput {
	input := service.ContentInput{
		Title:         p.Title,
		Body:          p.Body,
		Excerpt:       p.Excerpt,
		SocialSummary: p.SocialSummary,
		ImageRef:      p.ImageRef,
		Intent:        p.Status,
	}
	if strings.TrimSpace(p.Channel) != "" || strings.TrimSpace(p.Topic) != "" || strings.TrimSpace(p.Keyword) != "" {
		input.Terms = &service.TermFields{Channel: p.Channel, Topic: p.Topic, Keyword: p.Keyword}
	}
	return input
}

// CreateContent 新建稿件
func (a *API) CreateContent(c *gin.Context) {
	a.submitContent(c, 0)
}

// UpdateContent 更新已有稿件
func (a *API) UpdateContent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	a.submitContent(c, id)
}

func (a *API) submitContent(c *gin.Context, id uint) {
	var payload contentPayload
	if !bindJSON(c, &payload, "invalid content payload") {
		return
	}

	result, err := a.content.Submit(currentActor(c), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}

	response := gin.H{"id": result.Content.ID, "status": result.Content.Status}
	if result.TermSync != nil {
		response["termSync"] = result.TermSync
	}
	c.JSON(status, response)
}

// AutosaveContent 自动保存正文字段，从不改动稿件状态。
func (a *API) AutosaveContent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Title   string `json:"title"`
		Body    string `json:"body"`
		Excerpt string `json:"excerpt"`
	}
	if !bindJSON(c, &payload, "invalid autosave payload") {
		return
	}

	result, err := a.content.Autosave(currentActor(c), id, service.AutosaveInput{
		Title:   payload.Title,
		Body:    payload.Body,
		Excerpt: payload.Excerpt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetContent 获取单篇稿件。作者与审核角色可见，其余一律报告不存在。
func (a *API) GetContent(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"content": content})
}

// OwnPending 返回当前作者自己的待审核稿件。
func (a *API) OwnPending(c *gin.Context) {
	items, err := a.reviews.OwnPending(currentActor(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
