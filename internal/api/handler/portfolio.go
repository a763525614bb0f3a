package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/api/middleware"
	"github.com/qs3c/demostar_server/internal/model/dto"
	"github.com/qs3c/demostar_server/internal/pkg/response"
	"github.com/qs3c/demostar_server/internal/service"
)

type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	imageService     *service.ImageService
	listing          config.ListingConfig
}

func NewPortfolioHandler(portfolioService *service.PortfolioService, imageService *service.ImageService, listing config.ListingConfig) *PortfolioHandler {
	if listing.DefaultPageSize <= 0 {
		listing.DefaultPageSize = 50
	}
	if listing.MaxPageSize < listing.DefaultPageSize {
		listing.MaxPageSize = listing.DefaultPageSize
	}
	return &PortfolioHandler{
		portfolioService: portfolioService,
		imageService:     imageService,
		listing:          listing,
	}
}

// List 作品集列表
// GET /api/v1/portfolios?filter=male&sort=age_asc&page=1&page_size=50
func (h *PortfolioHandler) List(c *gin.Context) {
	var req dto.PortfolioListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, "无效的分页参数")
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = h.listing.DefaultPageSize
	}
	if req.PageSize > h.listing.MaxPageSize {
		req.PageSize = h.listing.MaxPageSize
	}

	page, err := h.portfolioService.List(c.Request.Context(), middleware.GetViewerID(c), req.Filter, req.Sort, req.Page, req.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessPage(c, page.Total, page.Page, page.PageSize, page.Items)
}

// Get 作品集详情
// GET /api/v1/portfolios/:id
func (h *PortfolioHandler) Get(c *gin.Context) {
	actorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品集ID")
		return
	}

	detail, err := h.portfolioService.GetDetail(c.Request.Context(), middleware.GetViewerID(c), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, detail)
}

// Bookmark 收藏
// POST /api/v1/portfolios/:id/bookmark
func (h *PortfolioHandler) Bookmark(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	actorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品集ID")
		return
	}

	resp, err := h.portfolioService.Bookmark(c.Request.Context(), userID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "收藏成功", resp)
}

// Unbookmark 取消收藏
// DELETE /api/v1/portfolios/:id/bookmark
func (h *PortfolioHandler) Unbookmark(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	actorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的作品集ID")
		return
	}

	resp, err := h.portfolioService.Unbookmark(c.Request.Context(), userID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "已取消收藏", resp)
}

// SetMainImage 设置作品集主图
// PUT /api/v1/portfolio/images/:id/main
func (h *PortfolioHandler) SetMainImage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	imageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的图片ID")
		return
	}

	resp, err := h.imageService.SetMainImage(c.Request.Context(), userID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "主图已更新", resp)
}
