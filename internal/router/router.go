package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"soko_market_v1/internal/controller"
	"soko_market_v1/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	authCtrl *controller.AuthController,
	draftCtrl *controller.DraftController,
	listingCtrl *controller.ListingController,
	geoCtrl *controller.GeoController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtrl.Register)
			auth.POST("/login", authCtrl.Login)
			auth.GET("/me", middleware.JWTAuth(), authCtrl.Me)
		}

		// 公开浏览
		api.GET("/listings", listingCtrl.ListListings)
		api.GET("/listings/:id", listingCtrl.GetListing)
		api.GET("/categories", listingCtrl.GetCategories)

		// 以下均要求登录
		protected := api.Group("", middleware.JWTAuth())
		{
			// 发布向导草稿
			drafts := protected.Group("/drafts/me")
			{
				drafts.GET("", draftCtrl.GetMyDraft)
				drafts.PATCH("/details", draftCtrl.UpdateDetails)
				drafts.POST("/details/advance", draftCtrl.AdvanceDetails)
				drafts.POST("/tags", draftCtrl.AddTag)
				// 同一用户的上传请求做最小间隔限制
				drafts.POST("/media", middleware.UploadThrottle(time.Second), draftCtrl.UploadMedia)
				drafts.PUT("/media/order", draftCtrl.ReorderMedia)
				drafts.DELETE("/media/:media_id", draftCtrl.RemoveMedia)
				drafts.POST("/media/advance", draftCtrl.AdvanceMedia)
				drafts.PUT("/step", draftCtrl.SetStep)
				drafts.GET("/preview", draftCtrl.Preview)
				drafts.POST("/publish", draftCtrl.Publish)
				drafts.POST("/reset", draftCtrl.Reset)
				drafts.GET("/progress/stream", draftCtrl.StreamProgress)
				drafts.GET("/suggest", draftCtrl.Suggest)
			}

			// 已发布商品的图片编辑
			protected.PUT("/listings/:id/images", listingCtrl.UpdateImages)

			// 地理服务
			protected.GET("/geo/reverse", geoCtrl.ReverseGeocode)
		}
	}
}
