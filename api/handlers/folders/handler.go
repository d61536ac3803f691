package folders

import (
	"context"

	"backend/internal/auth"
	"backend/internal/common"
	"backend/internal/rag"

	"github.com/gin-gonic/gin"
)

// RAGService 处理器依赖的服务能力
type RAGService interface {
	IndexFolder(ctx context.Context, tenantID, folder string) (*rag.IndexSummary, error)
	Chat(ctx context.Context, tenantID, folder, question string) (*rag.ChatResult, error)
	ListFolders(ctx context.Context, tenantID string) ([]string, error)
}

// Handler 文件夹索引与问答处理器
type Handler struct {
	svc RAGService
}

// NewHandler 创建处理器
func NewHandler(svc RAGService) *Handler {
	return &Handler{svc: svc}
}

// IndexRequest 索引构建请求
type IndexRequest struct {
	FolderName string `json:"folder_name" binding:"required,min=1"`
}

// ChatRequest 问答请求
type ChatRequest struct {
	FolderName string `json:"folder_name" binding:"required,min=1"`
	Query      string `json:"query" binding:"required,min=1"`
}

// IndexFolder 为文件夹构建索引
// @Summary 为文件夹构建语义索引
// @Tags Folders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body IndexRequest true "索引构建请求"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Router /api/index_folder [post]
func (h *Handler) IndexFolder(c *gin.Context) {
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "参数错误: "+err.Error())
		return
	}

	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	summary, err := h.svc.IndexFolder(c.Request.Context(), tenantID, req.FolderName)
	if err != nil {
		respondRagError(c, err)
		return
	}

	common.ResponseSuccess(c, summary)
}

// Chat 基于文件夹内容回答问题
// @Summary 基于文件夹内容回答问题
// @Tags Folders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChatRequest true "问答请求"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 502 {object} common.APIResponse
// @Router /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "参数错误: "+err.Error())
		return
	}

	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	result, err := h.svc.Chat(c.Request.Context(), tenantID, req.FolderName, req.Query)
	if err != nil {
		respondRagError(c, err)
		return
	}

	common.ResponseSuccess(c, result)
}

// Folders 列出当前租户的全部文件夹
// @Summary 列出当前租户的文件夹
// @Tags Folders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /api/folders [get]
func (h *Handler) Folders(c *gin.Context) {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	folders, err := h.svc.ListFolders(c.Request.Context(), tenantID)
	if err != nil {
		respondRagError(c, err)
		return
	}

	common.ResponseSuccess(c, gin.H{"folders": folders})
}

// respondRagError 按错误类别映射响应状态
func respondRagError(c *gin.Context, err error) {
	switch rag.KindOf(err) {
	case rag.KindNotFound:
		common.ResponseError(c, common.CodeNotFound, err.Error())
	case rag.KindBuildInProgress:
		common.ResponseError(c, common.CodeConflict, err.Error())
	case rag.KindEmptyCorpus:
		common.ResponseError(c, common.CodeUnprocessable, err.Error())
	case rag.KindEmbeddingProvider, rag.KindGenerationProvider:
		common.ResponseError(c, common.CodeUpstreamError, err.Error())
	case rag.KindAuth:
		common.ResponseError(c, common.CodeUnauthorized, err.Error())
	default:
		common.ResponseServerError(c, err.Error())
	}
}
