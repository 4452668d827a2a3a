package dto

// ==================== 请求 DTO ====================

// UpdateDetailsRequest 基本信息步骤的部分更新请求
// 指针字段为 nil 表示不修改；Tags 为 nil 表示不修改，空切片表示清空
type UpdateDetailsRequest struct {
	Title       *string  `json:"title,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Subcategory *string  `json:"subcategory,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Price       *string  `json:"price,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ReorderMediaRequest 媒体重排请求，id 顺序即新的展示顺序
type ReorderMediaRequest struct {
	MediaIDs []string `json:"media_ids" binding:"required,min=1"`
}

// SetStepRequest 步骤跳转请求（仅用于回退导航）
type SetStepRequest struct {
	Step string `json:"step" binding:"required"`
}

// PublishRequest 发布请求
type PublishRequest struct {
	TermsAccepted bool `json:"terms_accepted"`
}

// SuggestRequest AI 文案建议请求
type SuggestRequest struct {
	Keywords string `form:"keywords" binding:"required"`
	Style    string `form:"style"`
}

// ==================== 响应 DTO ====================

// MediaVO 媒体条目视图对象
type MediaVO struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Position int    `json:"position"`
}

// DraftVO 草稿视图对象
type DraftVO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Condition   string    `json:"condition"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Brand       string    `json:"brand"`
	Tags        []string  `json:"tags"`
	CurrentStep string    `json:"current_step"`
	Media       []MediaVO `json:"media_files"`
}

// RejectedFile 单个文件的拒收信息
type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MediaBatchReport 一批文件的接收结果
// 单个文件被拒不影响同批其他合法文件
type MediaBatchReport struct {
	Accepted []MediaVO      `json:"accepted"`
	Rejected []RejectedFile `json:"rejected,omitempty"`
	Skipped  []string       `json:"skipped,omitempty"` // 超出剩余槽位而未处理的文件名
}

// PreviewResponse 预览组合视图
// RedirectTo 非空表示守卫未通过，应退回对应步骤
type PreviewResponse struct {
	RedirectTo string   `json:"redirect_to,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Draft      *DraftVO `json:"draft,omitempty"`
	CoverURL   string   `json:"cover_url,omitempty"`
}

// PublishResult 发布结果
type PublishResult struct {
	ListingID int64 `json:"listing_id"`
}

// ProgressEvent 上传进度事件
type ProgressEvent struct {
	MediaID  string `json:"media_id"`
	Progress int    `json:"progress"`
	Done     bool   `json:"done"`
}

// SuggestResponse AI 文案建议
type SuggestResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
