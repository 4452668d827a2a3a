package model

// OrphanMedia 已脱离草稿的存储对象
// 媒体被移除或草稿被清空时登记，由定时任务异步释放存储
type OrphanMedia struct {
	BaseModel
	URL    string `gorm:"size:2048;not null;comment:存储URL"`
	Status string `gorm:"size:20;index;default:pending;comment:pending|deleted|failed"`
	Retry  int    `gorm:"default:0;comment:重试次数"`
}

func (*OrphanMedia) TableName() string {
	return "orphan_media"
}

const (
	OrphanStatusPending = "pending"
	OrphanStatusDeleted = "deleted"
	OrphanStatusFailed  = "failed"
)
