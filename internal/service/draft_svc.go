package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/datatypes"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
)

// ==================== 外部服务依赖 ====================

// ListingPublisher 发布服务接口，由 ListingService 实现
type ListingPublisher interface {
	CreateFromDraft(ctx context.Context, draft *model.AdDraft) (listingID int64, err error)
}

// UploadCanceller 上传任务取消接口，由 UploadService 实现
// 移除媒体时必须先取消对应的进度任务，防止遗留定时器写入已删除的键
type UploadCanceller interface {
	Cancel(mediaID string)
}

// ==================== 错误定义 ====================

var (
	ErrDraftNotFound     = errors.New("草稿不存在")
	ErrMediaNotFound     = errors.New("媒体不存在")
	ErrDuplicateTag      = errors.New("标签已存在")
	ErrTooManyTags       = fmt.Errorf("标签最多 %d 个", model.MaxDraftTags)
	ErrTermsNotAccepted  = errors.New("请先阅读并同意发布条款")
	ErrInvalidStep       = errors.New("未知的步骤")
	ErrInvalidMediaOrder = errors.New("排序列表与现有媒体不一致")
)

// ==================== 服务实现 ====================

// DraftService 发布向导草稿服务
// 草稿是 details → media → preview 三步流程的唯一事实来源，
// 每次变更立即落库，放弃流程不会清除草稿（没有过期时间）
type DraftService struct {
	uow       *repository.DraftUnitOfWork
	orphans   repository.OrphanMediaRepository
	publisher ListingPublisher
	uploads   UploadCanceller
}

// NewDraftService 创建草稿服务
func NewDraftService(
	uow *repository.DraftUnitOfWork,
	orphans repository.OrphanMediaRepository,
	publisher ListingPublisher,
	uploads UploadCanceller,
) *DraftService {
	return &DraftService{
		uow:       uow,
		orphans:   orphans,
		publisher: publisher,
		uploads:   uploads,
	}
}

// ==================== 获取 / 创建 ====================

// GetOrCreate 获取用户当前草稿，首次访问时隐式创建空草稿
func (s *DraftService) GetOrCreate(ctx context.Context, userID int64) (*model.AdDraft, error) {
	draft, err := s.uow.Drafts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft != nil {
		return draft, nil
	}

	draft = &model.AdDraft{
		UserID:      userID,
		Condition:   model.ConditionUsed,
		Currency:    "KES",
		CurrentStep: model.StepDetails,
	}
	if err := s.uow.Drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("创建草稿失败: %v", err)
	}
	return draft, nil
}

// ==================== Details 步骤 ====================

// UpdateDetails 部分合并基本信息字段
// 只触碰请求中出现的字段，媒体序列绝不受影响；重复调用同一载荷结果不变
func (s *DraftService) UpdateDetails(ctx context.Context, userID int64, req *dto.UpdateDetailsRequest) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Category != nil {
		updates["category"] = *req.Category
		// 换类目时旧子类目不再有意义
		if req.Subcategory == nil && *req.Category != draft.Category {
			updates["subcategory"] = ""
		}
	}
	if req.Subcategory != nil {
		updates["subcategory"] = *req.Subcategory
	}
	if req.Condition != nil {
		if !model.ValidCondition(*req.Condition) {
			return nil, fmt.Errorf("未知的成色: %s", *req.Condition)
		}
		updates["condition"] = *req.Condition
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Tags != nil {
		tags, ok := NormalizeTags(req.Tags)
		if !ok {
			return nil, ErrTooManyTags
		}
		updates["tags"] = datatypes.JSONSlice[string](tags)
	}

	if len(updates) > 0 {
		if err := s.uow.Drafts.UpdateFields(ctx, draft.ID, updates); err != nil {
			return nil, fmt.Errorf("保存草稿失败: %v", err)
		}
	}

	return s.uow.Drafts.GetByUserID(ctx, userID)
}

// AdvanceDetails 校验基本信息并进入 media 步骤
// 任一字段不过则不推进，错误逐字段返回
func (s *DraftService) AdvanceDetails(ctx context.Context, userID int64) (*model.AdDraft, FieldErrors, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if errs := ValidateDetails(draft); !errs.Ok() {
		return draft, errs, nil
	}

	if err := s.uow.Drafts.UpdateFields(ctx, draft.ID, map[string]interface{}{
		"current_step": model.StepMedia,
	}); err != nil {
		return nil, nil, err
	}
	draft.CurrentStep = model.StepMedia
	return draft, nil, nil
}

// AddTag 追加单个标签
// 与现有标签重复（大小写敏感）时不改变标签集并返回 ErrDuplicateTag
func (s *DraftService) AddTag(ctx context.Context, userID int64, tag string) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalized, _ := NormalizeTags([]string{tag})
	if len(normalized) == 0 {
		return nil, errors.New("标签不能为空")
	}
	tag = normalized[0]

	for _, t := range draft.Tags {
		if t == tag {
			return draft, ErrDuplicateTag
		}
	}
	if len(draft.Tags) >= model.MaxDraftTags {
		return draft, ErrTooManyTags
	}

	tags := append([]string(draft.Tags), tag)
	if err := s.uow.Drafts.UpdateFields(ctx, draft.ID, map[string]interface{}{
		"tags": datatypes.JSONSlice[string](tags),
	}); err != nil {
		return nil, err
	}
	draft.Tags = tags
	return draft, nil
}

// ==================== Media 步骤 ====================

// UpdateMedia 整体替换媒体序列
// 传入顺序即展示顺序（0 号为封面），二进制内容在落库前剥离
func (s *DraftService) UpdateMedia(ctx context.Context, userID int64, media []model.DraftMedia) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(media) > model.MaxDraftMedia {
		return nil, fmt.Errorf("媒体最多 %d 个", model.MaxDraftMedia)
	}

	if err := s.uow.Media.ReplaceAll(ctx, draft.ID, media); err != nil {
		return nil, fmt.Errorf("保存媒体失败: %v", err)
	}

	return s.uow.Drafts.GetByUserID(ctx, userID)
}

// ReorderMedia 按 id 列表重排媒体
// 列表必须恰好是现有媒体的一个排列，重排后 0 号即新封面
func (s *DraftService) ReorderMedia(ctx context.Context, userID int64, mediaIDs []string) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(mediaIDs) != len(draft.Media) {
		return nil, ErrInvalidMediaOrder
	}

	existing := make(map[string]*model.DraftMedia, len(draft.Media))
	for i := range draft.Media {
		existing[draft.Media[i].MediaID] = &draft.Media[i]
	}

	for _, id := range mediaIDs {
		if _, ok := existing[id]; !ok {
			return nil, ErrInvalidMediaOrder
		}
	}

	err = s.uow.Transaction(ctx, func(uow *repository.DraftUnitOfWork) error {
		for pos, id := range mediaIDs {
			if err := uow.Media.UpdatePosition(ctx, id, pos); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("重排失败: %v", err)
	}

	return s.uow.Drafts.GetByUserID(ctx, userID)
}

// RemoveMedia 移除单个媒体
// 先取消其进度任务再删除记录，存储对象登记为孤儿等待清理，剩余媒体位置重排
func (s *DraftService) RemoveMedia(ctx context.Context, userID int64, mediaID string) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var target *model.DraftMedia
	for i := range draft.Media {
		if draft.Media[i].MediaID == mediaID {
			target = &draft.Media[i]
			break
		}
	}
	if target == nil {
		return nil, ErrMediaNotFound
	}

	// 进度任务必须先于记录删除取消
	if s.uploads != nil {
		s.uploads.Cancel(mediaID)
	}

	err = s.uow.Transaction(ctx, func(uow *repository.DraftUnitOfWork) error {
		if err := uow.Media.Delete(ctx, mediaID); err != nil {
			return err
		}
		// 剩余媒体按原顺序压实位置
		pos := 0
		for _, m := range draft.Media {
			if m.MediaID == mediaID {
				continue
			}
			if err := uow.Media.UpdatePosition(ctx, m.MediaID, pos); err != nil {
				return err
			}
			pos++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("移除媒体失败: %v", err)
	}

	if s.orphans != nil {
		_ = s.orphans.Add(ctx, target.URL)
	}

	return s.uow.Drafts.GetByUserID(ctx, userID)
}

// AdvanceMedia 从 media 步骤进入 preview 步骤
// 媒体数量守卫放在预览挂载处，与前端行为保持一致
func (s *DraftService) AdvanceMedia(ctx context.Context, userID int64) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Drafts.UpdateFields(ctx, draft.ID, map[string]interface{}{
		"current_step": model.StepPreview,
	}); err != nil {
		return nil, err
	}
	draft.CurrentStep = model.StepPreview
	return draft, nil
}

// ==================== 步骤导航 ====================

// SetStep 纯步骤指针移动，不做任何校验
// 回退导航随时允许且不丢失已录入数据；前进守卫由各步骤自身的接口承担
func (s *DraftService) SetStep(ctx context.Context, userID int64, step string) (*model.AdDraft, error) {
	if !model.ValidStep(step) {
		return nil, ErrInvalidStep
	}

	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Drafts.UpdateFields(ctx, draft.ID, map[string]interface{}{
		"current_step": step,
	}); err != nil {
		return nil, err
	}
	draft.CurrentStep = step
	return draft, nil
}

// ==================== Preview 步骤 ====================

// Preview 组装只读预览
// 挂载守卫：标题缺失或没有媒体时给出退回 details 的指示，不返回组合视图
func (s *DraftService) Preview(ctx context.Context, userID int64) (*dto.PreviewResponse, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := draft.CanPreview(); err != nil {
		return &dto.PreviewResponse{
			RedirectTo: model.StepDetails,
			Reason:     err.Error(),
		}, nil
	}

	vo := ToDraftVO(draft)
	return &dto.PreviewResponse{
		Draft:    vo,
		CoverURL: draft.CoverURL(),
	}, nil
}

// Publish 确认发布
// 未勾选条款直接拒绝；发布失败时草稿原样保留供重试；
// 只有确认成功后才清空草稿并把步骤拨回 details
func (s *DraftService) Publish(ctx context.Context, userID int64, termsAccepted bool) (*dto.PublishResult, error) {
	if !termsAccepted {
		return nil, ErrTermsNotAccepted
	}

	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := draft.CanPreview(); err != nil {
		return nil, err
	}
	if errs := ValidateDetails(draft); !errs.Ok() {
		return nil, errs
	}

	listingID, err := s.publisher.CreateFromDraft(ctx, draft)
	if err != nil {
		// 草稿保留，用户可修正后重试
		return nil, fmt.Errorf("发布失败: %v", err)
	}

	if err := s.clearFormData(ctx, draft); err != nil {
		// 商品已创建成功，清理失败只记录不回滚
		log.Printf("[草稿] 用户 %d 发布后清空草稿失败: %v", userID, err)
	}

	return &dto.PublishResult{ListingID: listingID}, nil
}

// ==================== 清空 / 重置 ====================

// clearFormData 清空草稿并把步骤拨回 details，仅在发布确认成功后调用
func (s *DraftService) clearFormData(ctx context.Context, draft *model.AdDraft) error {
	return s.uow.Transaction(ctx, func(uow *repository.DraftUnitOfWork) error {
		if err := uow.Media.DeleteByDraftID(ctx, draft.ID); err != nil {
			return err
		}
		draft.ResetFields()
		return uow.Drafts.UpdateFields(ctx, draft.ID, map[string]interface{}{
			"title":        "",
			"category":     "",
			"subcategory":  "",
			"condition":    model.ConditionUsed,
			"price":        "",
			"currency":     "KES",
			"description":  "",
			"location":     "",
			"brand":        "",
			"tags":         datatypes.JSONSlice[string](nil),
			"current_step": model.StepDetails,
		})
	})
}

// ResetFormData 恢复所有字段默认值并丢弃全部媒体，但不改变步骤指针
// 与 clearFormData 的区别仅在步骤；用于"重新开始"动作
func (s *DraftService) ResetFormData(ctx context.Context, userID int64) (*model.AdDraft, error) {
	draft, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 进度任务必须先于记录删除取消
	if s.uploads != nil {
		for _, m := range draft.Media {
			s.uploads.Cancel(m.MediaID)
		}
	}

	err = s.uow.Transaction(ctx, func(uow *repository.DraftUnitOfWork) error {
		if err := uow.Media.DeleteByDraftID(ctx, draft.ID); err != nil {
			return err
		}
		return uow.Drafts.UpdateFields(ctx, draft.ID, map[string]interface{}{
			"title":       "",
			"category":    "",
			"subcategory": "",
			"condition":   model.ConditionUsed,
			"price":       "",
			"currency":    "KES",
			"description": "",
			"location":    "",
			"brand":       "",
			"tags":        datatypes.JSONSlice[string](nil),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.orphans != nil && len(draft.Media) > 0 {
		urls := make([]string, 0, len(draft.Media))
		for _, m := range draft.Media {
			urls = append(urls, m.URL)
		}
		_ = s.orphans.Add(ctx, urls...)
	}

	return s.uow.Drafts.GetByUserID(ctx, userID)
}

// ==================== VO 转换 ====================

// ToDraftVO 草稿转视图对象
func ToDraftVO(draft *model.AdDraft) *dto.DraftVO {
	media := make([]dto.MediaVO, len(draft.Media))
	for i, m := range draft.Media {
		media[i] = dto.MediaVO{
			ID:       m.MediaID,
			URL:      m.URL,
			Type:     m.Type,
			Name:     m.Name,
			Size:     m.Size,
			Position: m.Position,
		}
	}

	return &dto.DraftVO{
		ID:          draft.ID,
		Title:       draft.Title,
		Category:    draft.Category,
		Subcategory: draft.Subcategory,
		Condition:   draft.Condition,
		Price:       draft.Price,
		Currency:    draft.Currency,
		Description: draft.Description,
		Location:    draft.Location,
		Brand:       draft.Brand,
		Tags:        []string(draft.Tags),
		CurrentStep: draft.CurrentStep,
		Media:       media,
	}
}
