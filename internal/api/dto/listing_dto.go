package dto

// ==================== 请求 DTO ====================

// ListListingsRequest 商品列表请求
type ListListingsRequest struct {
	Category string `form:"category"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// UpdateListingImagesRequest 编辑已发布商品的图片
// 上限 4 张，与发布向导的 10 张上限独立
type UpdateListingImagesRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

// ==================== 响应 DTO ====================

// ListingVO 商品视图对象
type ListingVO struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"user_id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Condition   string   `json:"condition"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Brand       string   `json:"brand"`
	Tags        []string `json:"tags"`
	CoverURL    string   `json:"cover_url"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"created_at"`
}
