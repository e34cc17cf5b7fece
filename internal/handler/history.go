package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/readmegen/internal/repository"
	"github.com/weibaohui/readmegen/internal/service"
)

type HistoryHandler struct {
	service *service.ReadmeService
}

// NewHistoryHandler 创建生成历史处理器
func NewHistoryHandler(service *service.ReadmeService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List 获取生成历史列表，支持 limit 查询参数
func (h *HistoryHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.service.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Get 获取单条生成历史
func (h *HistoryHandler) Get(c *gin.Context) {
	entry, err := h.service.HistoryEntry(c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete 删除一条生成历史
func (h *HistoryHandler) Delete(c *gin.Context) {
	err := h.service.DeleteHistory(c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
