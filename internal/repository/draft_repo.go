package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"soko_market_v1/internal/model"
)

// ==================== 仓储接口 ====================

// DraftRepository 草稿仓储接口
type DraftRepository interface {
	Create(ctx context.Context, draft *model.AdDraft) error
	GetByUserID(ctx context.Context, userID int64) (*model.AdDraft, error)
	Update(ctx context.Context, draft *model.AdDraft) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// DraftMediaRepository 草稿媒体仓储接口
type DraftMediaRepository interface {
	Create(ctx context.Context, media *model.DraftMedia) error
	CreateBatch(ctx context.Context, media []model.DraftMedia) error
	GetByMediaID(ctx context.Context, mediaID string) (*model.DraftMedia, error)
	GetByDraftID(ctx context.Context, draftID int64) ([]model.DraftMedia, error)
	CountByDraftID(ctx context.Context, draftID int64) (int64, error)
	UpdatePosition(ctx context.Context, mediaID string, position int) error
	Delete(ctx context.Context, mediaID string) error
	DeleteByDraftID(ctx context.Context, draftID int64) error
	ReplaceAll(ctx context.Context, draftID int64, media []model.DraftMedia) error
}

// ==================== AdDraft 仓储实现 ====================

type draftRepo struct {
	db *gorm.DB
}

// NewDraftRepository 创建草稿仓储
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, draft *model.AdDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

// GetByUserID 查询用户当前草稿，不存在时返回 (nil, nil)
func (r *draftRepo) GetByUserID(ctx context.Context, userID int64) (*model.AdDraft, error) {
	var draft model.AdDraft
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepo) Update(ctx context.Context, draft *model.AdDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *draftRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.AdDraft{}).Where("id = ?", id).Updates(fields).Error
}

func (r *draftRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.AdDraft{}, id).Error
}

// ==================== DraftMedia 仓储实现 ====================

type draftMediaRepo struct {
	db *gorm.DB
}

// NewDraftMediaRepository 创建草稿媒体仓储
func NewDraftMediaRepository(db *gorm.DB) DraftMediaRepository {
	return &draftMediaRepo{db: db}
}

func (r *draftMediaRepo) Create(ctx context.Context, media *model.DraftMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *draftMediaRepo) CreateBatch(ctx context.Context, media []model.DraftMedia) error {
	if len(media) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&media).Error
}

func (r *draftMediaRepo) GetByMediaID(ctx context.Context, mediaID string) (*model.DraftMedia, error) {
	var media model.DraftMedia
	if err := r.db.WithContext(ctx).Where("media_id = ?", mediaID).First(&media).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *draftMediaRepo) GetByDraftID(ctx context.Context, draftID int64) ([]model.DraftMedia, error) {
	var media []model.DraftMedia
	err := r.db.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("position ASC").
		Find(&media).Error
	return media, err
}

func (r *draftMediaRepo) CountByDraftID(ctx context.Context, draftID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DraftMedia{}).Where("draft_id = ?", draftID).Count(&count).Error
	return count, err
}

func (r *draftMediaRepo) UpdatePosition(ctx context.Context, mediaID string, position int) error {
	return r.db.WithContext(ctx).
		Model(&model.DraftMedia{}).
		Where("media_id = ?", mediaID).
		Update("position", position).Error
}

func (r *draftMediaRepo) Delete(ctx context.Context, mediaID string) error {
	return r.db.WithContext(ctx).Where("media_id = ?", mediaID).Delete(&model.DraftMedia{}).Error
}

func (r *draftMediaRepo) DeleteByDraftID(ctx context.Context, draftID int64) error {
	return r.db.WithContext(ctx).Where("draft_id = ?", draftID).Delete(&model.DraftMedia{}).Error
}

// ReplaceAll 整体替换草稿的媒体序列（按传入顺序重排 Position）
func (r *draftMediaRepo) ReplaceAll(ctx context.Context, draftID int64, media []model.DraftMedia) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 硬删除旧序列，避免软删除行占用 media_id 唯一索引
		if err := tx.Unscoped().Where("draft_id = ?", draftID).Delete(&model.DraftMedia{}).Error; err != nil {
			return err
		}
		if len(media) == 0 {
			return nil
		}
		for i := range media {
			media[i].ID = 0
			media[i].DraftID = draftID
			media[i].Position = i
			// 二进制内容不落库
			media[i].Data = nil
		}
		return tx.Create(&media).Error
	})
}

// ==================== 事务支持 ====================

// DraftUnitOfWork 草稿工作单元（事务）
type DraftUnitOfWork struct {
	db     *gorm.DB
	Drafts DraftRepository
	Media  DraftMediaRepository
}

// NewDraftUnitOfWork 创建工作单元
func NewDraftUnitOfWork(db *gorm.DB) *DraftUnitOfWork {
	return &DraftUnitOfWork{
		db:     db,
		Drafts: NewDraftRepository(db),
		Media:  NewDraftMediaRepository(db),
	}
}

// Transaction 执行事务
func (u *DraftUnitOfWork) Transaction(ctx context.Context, fn func(uow *DraftUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &DraftUnitOfWork{
			db:     tx,
			Drafts: NewDraftRepository(tx),
			Media:  NewDraftMediaRepository(tx),
		}
		return fn(txUow)
	})
}
