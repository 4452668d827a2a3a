package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
)

// ==================== 测试辅助函数 ====================

func setupListingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Listing{}, &model.ListingImage{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func newTestListingService(t *testing.T) (*ListingService, *gorm.DB) {
	db := setupListingTestDB(t)
	return NewListingService(repository.NewListingRepository(db)), db
}

func publishedDraft() *model.AdDraft {
	return &model.AdDraft{
		UserID:      1,
		Title:       "Samsung Galaxy S21 Ultra 256GB",
		Category:    "electronics",
		Subcategory: "phones",
		Condition:   model.ConditionUsed,
		Price:       "45,000",
		Currency:    "KES",
		Description: "Well maintained phone, single owner, comes with original charger and box.",
		Location:    "Westlands, Nairobi",
		Tags:        []string{"samsung", "phone"},
		Media: []model.DraftMedia{
			{MediaID: "m-0", URL: "https://cdn.example.com/a.jpg", Type: model.MediaTypeImage, Position: 0},
			{MediaID: "m-1", URL: "https://cdn.example.com/b.jpg", Type: model.MediaTypeImage, Position: 1},
		},
	}
}

// ==================== CreateFromDraft 测试 ====================

func TestListingService_CreateFromDraft(t *testing.T) {
	svc, db := newTestListingService(t)
	ctx := context.Background()

	listingID, err := svc.CreateFromDraft(ctx, publishedDraft())
	if err != nil {
		t.Fatalf("CreateFromDraft() error = %v", err)
	}
	if listingID == 0 {
		t.Fatal("应返回新商品ID")
	}

	var listing model.Listing
	if err := db.Preload("Images").First(&listing, listingID).Error; err != nil {
		t.Fatalf("查询商品失败: %v", err)
	}

	// 价格以最小货币单位存储
	if listing.PriceAmount != 4500000 {
		t.Errorf("PriceAmount = %d, want 4500000", listing.PriceAmount)
	}
	if listing.CurrencyCode != "KES" {
		t.Errorf("CurrencyCode = %s, want KES", listing.CurrencyCode)
	}

	// 草稿媒体顺序即图片顺序，0 号为封面
	if listing.CoverURL != "https://cdn.example.com/a.jpg" {
		t.Errorf("CoverURL = %s, want 草稿 0 号媒体", listing.CoverURL)
	}
	if len(listing.Images) != 2 {
		t.Errorf("len(Images) = %d, want 2", len(listing.Images))
	}

	if listing.Status != model.ListingStatusActive {
		t.Errorf("Status = %s, want active", listing.Status)
	}
	if len(listing.Tags) != 2 {
		t.Errorf("len(Tags) = %d, want 2", len(listing.Tags))
	}
}

func TestListingService_CreateFromDraft_NotReady(t *testing.T) {
	svc, _ := newTestListingService(t)

	draft := publishedDraft()
	draft.Media = nil

	if _, err := svc.CreateFromDraft(context.Background(), draft); !errors.Is(err, ErrDraftNotReady) {
		t.Errorf("error = %v, want ErrDraftNotReady", err)
	}
}

// ==================== UpdateImages 测试 ====================

func TestListingService_UpdateImages(t *testing.T) {
	svc, db := newTestListingService(t)
	ctx := context.Background()

	listingID, err := svc.CreateFromDraft(ctx, publishedDraft())
	if err != nil {
		t.Fatalf("CreateFromDraft() error = %v", err)
	}

	urls := []string{
		"https://cdn.example.com/new1.jpg",
		"https://cdn.example.com/new2.jpg",
	}
	listing, err := svc.UpdateImages(ctx, 1, listingID, urls)
	if err != nil {
		t.Fatalf("UpdateImages() error = %v", err)
	}

	if len(listing.Images) != 2 {
		t.Fatalf("len(Images) = %d, want 2", len(listing.Images))
	}
	// 封面跟随新列表的首张
	if listing.CoverURL != urls[0] {
		t.Errorf("CoverURL = %s, want %s", listing.CoverURL, urls[0])
	}

	// 旧图片记录被整体替换
	var count int64
	db.Model(&model.ListingImage{}).Where("listing_id = ?", listingID).Count(&count)
	if count != 2 {
		t.Errorf("图片记录数 = %d, want 2", count)
	}
}

func TestListingService_UpdateImages_CapIsFour(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()

	listingID, err := svc.CreateFromDraft(ctx, publishedDraft())
	if err != nil {
		t.Fatalf("CreateFromDraft() error = %v", err)
	}

	// 编辑场景上限 4 张，与发布向导的 10 张上限独立
	urls := make([]string, model.MaxListingEditImages+1)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://cdn.example.com/%d.jpg", i)
	}

	if _, err := svc.UpdateImages(ctx, 1, listingID, urls); !errors.Is(err, ErrTooManyImages) {
		t.Errorf("error = %v, want ErrTooManyImages", err)
	}

	// 恰好 4 张通过
	if _, err := svc.UpdateImages(ctx, 1, listingID, urls[:model.MaxListingEditImages]); err != nil {
		t.Errorf("4 张应通过, error = %v", err)
	}
}

func TestListingService_UpdateImages_OwnershipCheck(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()

	listingID, err := svc.CreateFromDraft(ctx, publishedDraft())
	if err != nil {
		t.Fatalf("CreateFromDraft() error = %v", err)
	}

	// 用户 2 不是卖家
	_, err = svc.UpdateImages(ctx, 2, listingID, []string{"https://cdn.example.com/x.jpg"})
	if !errors.Is(err, ErrNotListingOwner) {
		t.Errorf("error = %v, want ErrNotListingOwner", err)
	}
}

// ==================== List 测试 ====================

func TestListingService_List_DefaultsToActive(t *testing.T) {
	svc, db := newTestListingService(t)
	ctx := context.Background()

	db.Create(&model.Listing{UserID: 1, Title: "Active item", Status: model.ListingStatusActive})
	db.Create(&model.Listing{UserID: 1, Title: "Sold item", Status: model.ListingStatusSold})

	listings, total, err := svc.List(ctx, repository.ListingFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if total != 1 || len(listings) != 1 {
		t.Errorf("total = %d, len = %d, 默认只返回在售商品", total, len(listings))
	}
}
