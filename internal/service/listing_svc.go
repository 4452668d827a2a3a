package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
	"soko_market_v1/pkg/utils"
)

// ==================== 错误定义 ====================

var (
	ErrListingNotFound = errors.New("商品不存在")
	ErrNotListingOwner = errors.New("无权操作该商品")
	ErrTooManyImages   = errors.New("图片数量超出上限")
	ErrEmptyImageList  = errors.New("图片列表不能为空")
	ErrDraftNotReady   = errors.New("草稿尚不满足发布条件")
)

// ==================== 服务实现 ====================

// ListingService 商品服务，实现 ListingPublisher
type ListingService struct {
	listings repository.ListingRepository
}

// NewListingService 创建商品服务
func NewListingService(listings repository.ListingRepository) *ListingService {
	return &ListingService{listings: listings}
}

// ==================== 发布 ====================

// CreateFromDraft 从草稿创建已发布商品
// 草稿媒体的当前顺序即商品图片顺序，首个媒体成为封面
func (s *ListingService) CreateFromDraft(ctx context.Context, draft *model.AdDraft) (int64, error) {
	if draft.Title == "" || len(draft.Media) == 0 {
		return 0, ErrDraftNotReady
	}

	price, err := utils.ParsePrice(draft.Price)
	if err != nil {
		return 0, fmt.Errorf("解析价格失败: %v", err)
	}

	listing := &model.Listing{
		UserID:       draft.UserID,
		Title:        draft.Title,
		Category:     draft.Category,
		Subcategory:  draft.Subcategory,
		Condition:    draft.Condition,
		PriceAmount:  utils.FormatPriceAmount(price),
		CurrencyCode: draft.Currency,
		Description:  draft.Description,
		Location:     draft.Location,
		Brand:        draft.Brand,
		Tags:         pq.StringArray(draft.Tags),
		Status:       model.ListingStatusActive,
	}

	images := make([]model.ListingImage, 0, len(draft.Media))
	for i, m := range draft.Media {
		if i == 0 {
			listing.CoverURL = m.URL
		}
		images = append(images, model.ListingImage{
			URL:      m.URL,
			Position: i,
		})
	}
	listing.Images = images

	if err := s.listings.Create(ctx, listing); err != nil {
		return 0, fmt.Errorf("创建商品失败: %v", err)
	}

	log.Printf("[商品] 用户 %d 发布商品 %d: %s", draft.UserID, listing.ID, listing.Title)
	return listing.ID, nil
}

// ==================== 查询 ====================

// GetByID 获取商品详情
func (s *ListingService) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// List 商品列表
func (s *ListingService) List(ctx context.Context, filter repository.ListingFilter) ([]model.Listing, int64, error) {
	if filter.Status == "" {
		filter.Status = model.ListingStatusActive
	}
	return s.listings.List(ctx, filter)
}

// ==================== 图片编辑 ====================

// UpdateImages 整体替换已发布商品的图片
// 编辑场景的上限与发布向导的上限独立
func (s *ListingService) UpdateImages(ctx context.Context, userID int64, listingID int64, urls []string) (*model.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, ErrListingNotFound
	}
	if listing.UserID != userID {
		return nil, ErrNotListingOwner
	}

	if len(urls) == 0 {
		return nil, ErrEmptyImageList
	}
	if len(urls) > model.MaxListingEditImages {
		return nil, fmt.Errorf("%w: 最多 %d 张", ErrTooManyImages, model.MaxListingEditImages)
	}

	if err := s.listings.ReplaceImages(ctx, listingID, urls); err != nil {
		return nil, fmt.Errorf("更新商品图片失败: %v", err)
	}

	return s.listings.GetByID(ctx, listingID)
}

// ==================== 视图转换 ====================

// ToListingVO 转换为视图对象
func (s *ListingService) ToListingVO(listing *model.Listing) dto.ListingVO {
	images := make([]string, 0, len(listing.Images))
	for _, img := range listing.Images {
		images = append(images, img.URL)
	}

	return dto.ListingVO{
		ID:          listing.ID,
		UserID:      listing.UserID,
		Title:       listing.Title,
		Category:    listing.Category,
		Subcategory: listing.Subcategory,
		Condition:   listing.Condition,
		Price:       listing.GetPrice(),
		Currency:    listing.CurrencyCode,
		Description: listing.Description,
		Location:    listing.Location,
		Brand:       listing.Brand,
		Tags:        []string(listing.Tags),
		CoverURL:    listing.CoverURL,
		Status:      listing.Status,
		Images:      images,
		CreatedAt:   listing.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
