package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"soko_market_v1/internal/controller"
	"soko_market_v1/internal/middleware"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
	"soko_market_v1/internal/router"
	"soko_market_v1/internal/service"
	"soko_market_v1/internal/task"
	"soko_market_v1/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers.Auth, deps.Controllers.Draft,
		deps.Controllers.Listing, deps.Controllers.Geo)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User     repository.UserRepository
	DraftUow *repository.DraftUnitOfWork
	Listing  repository.ListingRepository
	Orphan   repository.OrphanMediaRepository
}

// Services 服务集合
type Services struct {
	User    *service.UserService
	Draft   *service.DraftService
	Upload  *service.UploadService
	Listing *service.ListingService
	Storage service.StorageProvider
	Geo     *service.GeoService
	AI      *service.AIService
}

// Controllers 控制器集合
type Controllers struct {
	Auth    *controller.AuthController
	Draft   *controller.DraftController
	Listing *controller.ListingController
	Geo     *controller.GeoController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=soko_market port=5432 sslmode=disable TimeZone=Africa/Nairobi")

	return database.InitDB(dsn,
		// Account
		&model.SysUser{},
		// Draft
		&model.AdDraft{}, &model.DraftMedia{},
		// Listing
		&model.Listing{}, &model.ListingImage{},
		// Cleanup
		&model.OrphanMedia{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:     repository.NewUserRepository(db),
		DraftUow: repository.NewDraftUnitOfWork(db),
		Listing:  repository.NewListingRepository(db),
		Orphan:   repository.NewOrphanMediaRepository(db),
	}

	// -------- JWT 配置 --------
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- 存储 & 外部服务 --------
	storage := initStorage()
	geoSvc := service.NewGeoService(&service.GeoConfig{},
		func() string { return os.Getenv("GEO_API_KEY") })
	aiSvc := service.NewAIService(&service.AIConfig{},
		func() string { return os.Getenv("GEMINI_API_KEY") })

	// -------- 业务服务 --------
	services := &Services{
		User:    service.NewUserService(repos.User),
		Upload:  service.NewUploadService(storage),
		Listing: service.NewListingService(repos.Listing),
		Storage: storage,
		Geo:     geoSvc,
		AI:      aiSvc,
	}
	services.Draft = service.NewDraftService(repos.DraftUow, repos.Orphan, services.Listing, services.Upload)

	// -------- Controller 层 --------
	controllers := &Controllers{
		Auth:    controller.NewAuthController(services.User),
		Draft:   controller.NewDraftController(services.Draft, services.Upload, services.AI),
		Listing: controller.NewListingController(services.Listing),
		Geo:     controller.NewGeoController(services.Geo),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorage 初始化存储
func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", ""),
		Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
	})
	if err != nil {
		log.Printf("警告: 存储服务初始化失败: %v", err)
		return nil
	}
	return storage
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 孤儿媒体清理
	if deps.Services.Storage != nil {
		cleanupTask := task.NewMediaCleanupTask(deps.Repos.Orphan, deps.Services.Storage)
		cleanupTask.Start()
	}

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
