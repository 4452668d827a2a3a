package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/middleware"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
	"soko_market_v1/internal/service"
)

// ==================== 控制器 ====================

// ListingController 商品控制器
type ListingController struct {
	listingService *service.ListingService
}

func NewListingController(listingService *service.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// ==================== API 方法 ====================

// ListListings 商品列表
// @Summary 浏览在售商品（公开接口）
// @Tags Listing
// @Param category query string false "类目"
// @Param keyword query string false "关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Produce json
// @Router /api/listings [get]
func (ctrl *ListingController) ListListings(c *gin.Context) {
	var req dto.ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	listings, total, err := ctrl.listingService.List(c.Request.Context(), repository.ListingFilter{
		Category: req.Category,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	items := make([]dto.ListingVO, 0, len(listings))
	for i := range listings {
		items = append(items, ctrl.listingService.ToListingVO(&listings[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
			"total": total,
		},
	})
}

// GetListing 商品详情
// @Summary 获取商品详情（公开接口）
// @Tags Listing
// @Param id path int true "商品ID"
// @Produce json
// @Success 200 {object} dto.ListingVO
// @Router /api/listings/{id} [get]
func (ctrl *ListingController) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "无效的商品ID",
		})
		return
	}

	listing, err := ctrl.listingService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctrl.listingService.ToListingVO(listing),
	})
}

// UpdateImages 编辑已发布商品的图片
// @Summary 整体替换商品图片，编辑场景上限 4 张
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path int true "商品ID"
// @Param body body dto.UpdateListingImagesRequest true "图片URL列表"
// @Router /api/listings/{id}/images [put]
func (ctrl *ListingController) UpdateImages(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "无效的商品ID",
		})
		return
	}

	var req dto.UpdateListingImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	listing, err := ctrl.listingService.UpdateImages(c.Request.Context(), userID, id, req.URLs)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrNotListingOwner):
			status = http.StatusForbidden
		case errors.Is(err, service.ErrTooManyImages), errors.Is(err, service.ErrEmptyImageList):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctrl.listingService.ToListingVO(listing),
	})
}

// GetCategories 类目树
// @Summary 获取类目及子类目（公开接口）
// @Tags Listing
// @Produce json
// @Router /api/categories [get]
func (ctrl *ListingController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    model.Categories,
	})
}
