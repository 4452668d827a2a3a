package repository

import (
	"context"

	"gorm.io/gorm"

	"soko_market_v1/internal/model"
)

// ==================== OrphanMediaRepository 孤儿媒体仓储 ====================

// OrphanMediaRepository 待释放存储对象的登记表
type OrphanMediaRepository interface {
	Add(ctx context.Context, urls ...string) error
	FindPending(ctx context.Context, limit int) ([]*model.OrphanMedia, error)
	MarkDeleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}

type orphanMediaRepo struct {
	db *gorm.DB
}

// NewOrphanMediaRepository 创建孤儿媒体仓储
func NewOrphanMediaRepository(db *gorm.DB) OrphanMediaRepository {
	return &orphanMediaRepo{db: db}
}

func (r *orphanMediaRepo) Add(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	rows := make([]model.OrphanMedia, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		rows = append(rows, model.OrphanMedia{URL: u, Status: model.OrphanStatusPending})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *orphanMediaRepo) FindPending(ctx context.Context, limit int) ([]*model.OrphanMedia, error) {
	var rows []*model.OrphanMedia
	err := r.db.WithContext(ctx).
		Where("status = ?", model.OrphanStatusPending).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *orphanMediaRepo) MarkDeleted(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.OrphanMedia{}).Where("id = ?", id).
		Update("status", model.OrphanStatusDeleted).Error
}

func (r *orphanMediaRepo) MarkFailed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.OrphanMedia{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": model.OrphanStatusFailed,
			"retry":  gorm.Expr("retry + 1"),
		}).Error
}
