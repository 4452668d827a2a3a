package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"soko_market_v1/internal/service"
)

// ==================== 控制器 ====================

// GeoController 地理服务控制器
type GeoController struct {
	geoService *service.GeoService
}

func NewGeoController(geoService *service.GeoService) *GeoController {
	return &GeoController{geoService: geoService}
}

// ==================== API 方法 ====================

// ReverseGeocode 坐标转地址
// @Summary 反向地理编码，用于"使用当前位置"填充位置字段
// @Tags Geo
// @Param lat query number true "纬度"
// @Param lon query number true "经度"
// @Produce json
// @Router /api/geo/reverse [get]
func (ctrl *GeoController) ReverseGeocode(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "无效的坐标",
		})
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "坐标超出范围",
		})
		return
	}

	address, err := ctrl.geoService.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"location": address},
	})
}
