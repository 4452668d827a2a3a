package model

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
)

// ==================== 状态常量 ====================

const (
	// 向导步骤
	StepDetails = "details"
	StepMedia   = "media"
	StepPreview = "preview"

	// 商品成色
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionUsedLikeNew = "used_like_new"
	ConditionForParts    = "for_parts"

	// 媒体类型
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// ==================== 容量限制 ====================

const (
	// MaxDraftMedia 发布向导的媒体上限
	MaxDraftMedia = 10

	// MaxListingEditImages 编辑已发布商品的图片上限
	// 与向导的 10 张上限不一致，属于两条独立流程，产品未确认前不合并
	MaxListingEditImages = 4

	// MaxDraftTags 标签上限
	MaxDraftTags = 10

	// MaxMediaFileSize 单文件大小上限 (50 MiB)
	MaxMediaFileSize = 50 * 1024 * 1024
)

// ==================== 数据库模型 ====================

// AdDraft 发布向导的草稿（每个用户同一时刻只有一份）
type AdDraft struct {
	BaseModel
	UserID      int64                       `gorm:"uniqueIndex;not null;comment:用户ID"`
	Title       string                      `gorm:"size:100;comment:标题"`
	Category    string                      `gorm:"size:64;index;comment:类目"`
	Subcategory string                      `gorm:"size:64;comment:子类目"`
	Condition   string                      `gorm:"size:20;default:used;comment:成色"`
	Price       string                      `gorm:"size:32;comment:价格(格式化字符串)"`
	Currency    string                      `gorm:"size:3;default:KES;comment:货币代码"`
	Description string                      `gorm:"type:text;comment:描述"`
	Location    string                      `gorm:"size:255;comment:位置"`
	Brand       string                      `gorm:"size:64;comment:品牌"`
	Tags        datatypes.JSONSlice[string] `gorm:"comment:标签"`
	CurrentStep string                      `gorm:"size:16;default:details;comment:当前步骤"`

	// 关联
	Media []DraftMedia `gorm:"foreignKey:DraftID"`
}

func (*AdDraft) TableName() string {
	return "ad_drafts"
}

// DraftMedia 草稿媒体条目，Position 0 为封面
type DraftMedia struct {
	BaseModel
	DraftID  int64  `gorm:"index;not null;comment:草稿ID"`
	MediaID  string `gorm:"size:36;uniqueIndex;not null;comment:媒体唯一ID"`
	URL      string `gorm:"size:2048;comment:预览URL"`
	Type     string `gorm:"size:10;comment:image|video"`
	Name     string `gorm:"size:255;comment:原始文件名"`
	Size     int64  `gorm:"comment:字节大小"`
	Position int    `gorm:"index;comment:排序位置"`

	// 原始字节只在内存中存在，刷新/重载后丢失，持久化只保留元数据
	Data []byte `gorm:"-" json:"-"`
}

func (*DraftMedia) TableName() string {
	return "draft_media"
}

// ==================== 辅助方法 ====================

// IsEmpty 草稿是否为空（尚未填写任何字段）
func (d *AdDraft) IsEmpty() bool {
	return d.Title == "" && d.Category == "" && d.Description == "" &&
		d.Price == "" && d.Location == "" && len(d.Tags) == 0
}

// CoverURL 封面图 URL（Position 0）
func (d *AdDraft) CoverURL() string {
	for _, m := range d.Media {
		if m.Position == 0 {
			return m.URL
		}
	}
	return ""
}

// RemainingMediaSlots 剩余可上传媒体数
func (d *AdDraft) RemainingMediaSlots() int {
	n := MaxDraftMedia - len(d.Media)
	if n < 0 {
		return 0
	}
	return n
}

// CanPreview 预览页挂载守卫：标题缺失或没有媒体时退回 details
func (d *AdDraft) CanPreview() error {
	if d.Title == "" {
		return errors.New("标题缺失，请先完成基本信息")
	}
	if len(d.Media) == 0 {
		return errors.New("尚未上传任何图片或视频")
	}
	return nil
}

// ResetFields 恢复所有字段默认值，不改变步骤指针
func (d *AdDraft) ResetFields() {
	d.Title = ""
	d.Category = ""
	d.Subcategory = ""
	d.Condition = ConditionUsed
	d.Price = ""
	d.Currency = "KES"
	d.Description = ""
	d.Location = ""
	d.Brand = ""
	d.Tags = nil
}

// ValidStep 步骤值是否合法
func ValidStep(step string) bool {
	switch step {
	case StepDetails, StepMedia, StepPreview:
		return true
	}
	return false
}

// ValidCondition 成色值是否合法
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionUsedLikeNew, ConditionForParts:
		return true
	}
	return false
}

// ValidMediaType 媒体类型是否合法
func ValidMediaType(t string) error {
	if t != MediaTypeImage && t != MediaTypeVideo {
		return fmt.Errorf("未知的媒体类型: %s", t)
	}
	return nil
}
