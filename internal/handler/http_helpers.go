package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError 把服务层错误映射为机器可读的错误类别。
// PermissionDenied 与 NotFound 不携带内部状态细节。
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrTermNameRequired),
		errors.Is(err, service.ErrUnknownTaxonomy):
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"kind": "permission_denied", "error": "permission denied"})
	case errors.Is(err, service.ErrContentNotFound), errors.Is(err, service.ErrTermNotFound):
		c.JSON(http.StatusNotFound, gin.H{"kind": "not_found", "error": "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"kind": "conflict", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"kind": "internal", "error": "internal error"})
	}
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}
