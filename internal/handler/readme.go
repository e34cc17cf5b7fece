package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/readmegen/internal/service"
)

type ReadmeHandler struct {
	service *service.ReadmeService
}

// NewReadmeHandler 创建 README 生成处理器
func NewReadmeHandler(service *service.ReadmeService) *ReadmeHandler {
	return &ReadmeHandler{service: service}
}

// Generate 分析仓库并生成 README
func (h *ReadmeHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Refine 基于反馈修订 README
func (h *ReadmeHandler) Refine(c *gin.Context) {
	var req service.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Refine(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Sections 返回内置章节模板列表
func (h *ReadmeHandler) Sections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": h.service.Sections()})
}
