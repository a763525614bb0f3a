package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/demostar_server/internal/api/middleware"
	"github.com/qs3c/demostar_server/internal/pkg/response"
	"github.com/qs3c/demostar_server/internal/service"
)

type DemoStarHandler struct {
	demoStarService *service.DemoStarService
}

func NewDemoStarHandler(demoStarService *service.DemoStarService) *DemoStarHandler {
	return &DemoStarHandler{
		demoStarService: demoStarService,
	}
}

// Get DemoStar 详情（含相关推荐）
// GET /api/v1/demostars/:id
func (h *DemoStarHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的DemoStar ID")
		return
	}

	detail, err := h.demoStarService.GetDetail(c.Request.Context(), middleware.GetViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, detail)
}

// Recommendations 相关推荐
// GET /api/v1/demostars/:id/recommendations
func (h *DemoStarHandler) Recommendations(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的DemoStar ID")
		return
	}

	items, err := h.demoStarService.Recommend(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, items)
}

// Like 点赞
// POST /api/v1/demostars/:id/like
func (h *DemoStarHandler) Like(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的DemoStar ID")
		return
	}

	resp, err := h.demoStarService.Like(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "点赞成功", resp)
}

// Unlike 取消点赞
// DELETE /api/v1/demostars/:id/like
func (h *DemoStarHandler) Unlike(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的DemoStar ID")
		return
	}

	resp, err := h.demoStarService.Unlike(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "已取消点赞", resp)
}
