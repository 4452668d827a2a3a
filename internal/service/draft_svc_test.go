package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
)

// ==================== Mock 实现 ====================

type mockPublisher struct {
	createFromDraftFn func(ctx context.Context, draft *model.AdDraft) (int64, error)
}

func (m *mockPublisher) CreateFromDraft(ctx context.Context, draft *model.AdDraft) (int64, error) {
	if m.createFromDraftFn != nil {
		return m.createFromDraftFn(ctx, draft)
	}
	return 100, nil
}

type mockCanceller struct {
	cancelled []string
}

func (m *mockCanceller) Cancel(mediaID string) {
	m.cancelled = append(m.cancelled, mediaID)
}

// ==================== 测试辅助函数 ====================

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(&model.AdDraft{}, &model.DraftMedia{}, &model.OrphanMedia{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func newTestService(t *testing.T) (*DraftService, *gorm.DB, *mockCanceller) {
	db := setupServiceTestDB(t)
	uow := repository.NewDraftUnitOfWork(db)
	canceller := &mockCanceller{}

	svc := NewDraftService(
		uow,
		repository.NewOrphanMediaRepository(db),
		&mockPublisher{},
		canceller,
	)

	return svc, db, canceller
}

func strPtr(s string) *string { return &s }

// fillValidDetails 填充一套可以通过校验的基本信息
func fillValidDetails(t *testing.T, svc *DraftService, userID int64) {
	_, err := svc.UpdateDetails(context.Background(), userID, &dto.UpdateDetailsRequest{
		Title:       strPtr("Samsung Galaxy S21 Ultra 256GB"),
		Category:    strPtr("electronics"),
		Subcategory: strPtr("phones"),
		Condition:   strPtr(model.ConditionUsed),
		Price:       strPtr("45,000"),
		Description: strPtr("Well maintained phone, single owner, comes with original charger and box. No scratches."),
		Location:    strPtr("Westlands, Nairobi"),
	})
	if err != nil {
		t.Fatalf("填充基本信息失败: %v", err)
	}
}

// addTestMedia 直接插入 n 条媒体记录
func addTestMedia(t *testing.T, svc *DraftService, userID int64, n int) []model.DraftMedia {
	media := make([]model.DraftMedia, n)
	for i := 0; i < n; i++ {
		media[i] = model.DraftMedia{
			MediaID: fmt.Sprintf("media-%d", i),
			URL:     fmt.Sprintf("https://cdn.example.com/m%d.jpg", i),
			Type:    model.MediaTypeImage,
			Name:    fmt.Sprintf("photo%d.jpg", i),
			Size:    1024,
			Data:    []byte{0xFF, 0xD8},
		}
	}
	if _, err := svc.UpdateMedia(context.Background(), userID, media); err != nil {
		t.Fatalf("插入媒体失败: %v", err)
	}
	return media
}

// ==================== GetOrCreate 测试 ====================

func TestDraftService_GetOrCreate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// 首次访问隐式创建
	draft, err := svc.GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if draft.ID == 0 {
		t.Error("草稿应已落库")
	}
	if draft.CurrentStep != model.StepDetails {
		t.Errorf("CurrentStep = %s, want details", draft.CurrentStep)
	}
	if draft.Condition != model.ConditionUsed {
		t.Errorf("Condition = %s, want used", draft.Condition)
	}
	if draft.Currency != "KES" {
		t.Errorf("Currency = %s, want KES", draft.Currency)
	}

	// 再次访问返回同一份
	again, err := svc.GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if again.ID != draft.ID {
		t.Errorf("二次访问草稿 ID = %d, want %d", again.ID, draft.ID)
	}
}

// ==================== UpdateDetails 测试 ====================

func TestDraftService_UpdateDetails_PartialMerge(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateDetails(ctx, 1, &dto.UpdateDetailsRequest{
		Title: strPtr("iPhone 13 Pro Max 128GB"),
		Price: strPtr("89,999"),
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	// 只更新价格，标题不受影响
	draft, err := svc.UpdateDetails(ctx, 1, &dto.UpdateDetailsRequest{
		Price: strPtr("85,000"),
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	if draft.Title != "iPhone 13 Pro Max 128GB" {
		t.Errorf("Title = %s, 未携带的字段不应被改写", draft.Title)
	}
	if draft.Price != "85,000" {
		t.Errorf("Price = %s, want 85,000", draft.Price)
	}
}

func TestDraftService_UpdateDetails_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := &dto.UpdateDetailsRequest{
		Title: strPtr("Toyota Corolla 2018 Low Mileage"),
		Tags:  []string{"toyota", "corolla"},
	}

	first, err := svc.UpdateDetails(ctx, 1, req)
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}
	second, err := svc.UpdateDetails(ctx, 1, req)
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	if first.Title != second.Title || len(first.Tags) != len(second.Tags) {
		t.Error("重复提交同一载荷结果应不变")
	}
}

func TestDraftService_UpdateDetails_DoesNotTouchMedia(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	addTestMedia(t, svc, 1, 3)

	draft, err := svc.UpdateDetails(ctx, 1, &dto.UpdateDetailsRequest{
		Title: strPtr("Mountain Bike 26 inch frame"),
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	if len(draft.Media) != 3 {
		t.Errorf("len(Media) = %d, 基本信息更新不应影响媒体", len(draft.Media))
	}
}

func TestDraftService_UpdateDetails_CategoryChangeClearsSubcategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateDetails(ctx, 1, &dto.UpdateDetailsRequest{
		Category:    strPtr("electronics"),
		Subcategory: strPtr("phones"),
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	draft, err := svc.UpdateDetails(ctx, 1, &dto.UpdateDetailsRequest{
		Category: strPtr("vehicles"),
	})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}

	if draft.Subcategory != "" {
		t.Errorf("Subcategory = %s, 换类目后旧子类目应被清空", draft.Subcategory)
	}
}

// ==================== 标签测试 ====================

func TestDraftService_AddTag_StripsHashPrefix(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.AddTag(ctx, 1, "#bargain")
	if err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}

	if len(draft.Tags) != 1 || draft.Tags[0] != "bargain" {
		t.Errorf("Tags = %v, '#' 前缀应被剥离", draft.Tags)
	}
}

func TestDraftService_AddTag_Duplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddTag(ctx, 1, "nairobi"); err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}

	draft, err := svc.AddTag(ctx, 1, "nairobi")
	if !errors.Is(err, ErrDuplicateTag) {
		t.Errorf("error = %v, want ErrDuplicateTag", err)
	}
	if len(draft.Tags) != 1 {
		t.Errorf("len(Tags) = %d, 重复添加不应改变标签集", len(draft.Tags))
	}

	// 大小写敏感：Nairobi 是另一个标签
	draft, err = svc.AddTag(ctx, 1, "Nairobi")
	if err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	if len(draft.Tags) != 2 {
		t.Errorf("len(Tags) = %d, 大小写不同应视为不同标签", len(draft.Tags))
	}
}

func TestDraftService_AddTag_LimitExceeded(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < model.MaxDraftTags; i++ {
		if _, err := svc.AddTag(ctx, 1, fmt.Sprintf("tag%d", i)); err != nil {
			t.Fatalf("AddTag(%d) error = %v", i, err)
		}
	}

	draft, err := svc.AddTag(ctx, 1, "eleventh")
	if !errors.Is(err, ErrTooManyTags) {
		t.Errorf("error = %v, want ErrTooManyTags", err)
	}
	if len(draft.Tags) != model.MaxDraftTags {
		t.Errorf("len(Tags) = %d, want %d", len(draft.Tags), model.MaxDraftTags)
	}
}

// ==================== AdvanceDetails 测试 ====================

func TestDraftService_AdvanceDetails_Valid(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)

	draft, fieldErrs, err := svc.AdvanceDetails(ctx, 1)
	if err != nil {
		t.Fatalf("AdvanceDetails() error = %v", err)
	}
	if fieldErrs != nil {
		t.Fatalf("fieldErrs = %v, 校验应通过", fieldErrs)
	}
	if draft.CurrentStep != model.StepMedia {
		t.Errorf("CurrentStep = %s, want media", draft.CurrentStep)
	}
}

func TestDraftService_AdvanceDetails_ValidationFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// 空草稿全部字段缺失
	draft, fieldErrs, err := svc.AdvanceDetails(ctx, 1)
	if err != nil {
		t.Fatalf("AdvanceDetails() error = %v", err)
	}
	if fieldErrs == nil {
		t.Fatal("空草稿应返回字段错误")
	}
	if _, ok := fieldErrs["title"]; !ok {
		t.Error("应包含 title 错误")
	}
	if draft.CurrentStep != model.StepDetails {
		t.Errorf("CurrentStep = %s, 校验失败不应推进步骤", draft.CurrentStep)
	}
}

// ==================== 媒体持久化测试 ====================

func TestDraftService_UpdateMedia_PersistsMetadataOnly(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	addTestMedia(t, svc, 1, 3)

	// 重新加载，模拟页面刷新
	draft, err := svc.GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	if len(draft.Media) != 3 {
		t.Fatalf("len(Media) = %d, want 3", len(draft.Media))
	}
	for i, m := range draft.Media {
		if m.Position != i {
			t.Errorf("Media[%d].Position = %d, want %d", i, m.Position, i)
		}
		if m.URL == "" || m.Name == "" {
			t.Errorf("Media[%d] 元数据应保留", i)
		}
	}

	// 二进制内容绝不落库
	var raw model.DraftMedia
	db.First(&raw)
	if raw.Data != nil {
		t.Error("Data 字段不应被持久化")
	}
}

func TestDraftService_UpdateMedia_CapExceeded(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	media := make([]model.DraftMedia, model.MaxDraftMedia+1)
	for i := range media {
		media[i] = model.DraftMedia{
			MediaID: fmt.Sprintf("m-%d", i),
			Type:    model.MediaTypeImage,
		}
	}

	if _, err := svc.UpdateMedia(ctx, 1, media); err == nil {
		t.Error("超出媒体上限应返回错误")
	}
}

// ==================== 重排测试 ====================

func TestDraftService_ReorderMedia_ChangesCover(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	addTestMedia(t, svc, 1, 3)

	draft, err := svc.ReorderMedia(ctx, 1, []string{"media-2", "media-0", "media-1"})
	if err != nil {
		t.Fatalf("ReorderMedia() error = %v", err)
	}

	if draft.Media[0].MediaID != "media-2" {
		t.Errorf("Media[0] = %s, want media-2", draft.Media[0].MediaID)
	}
	if draft.CoverURL() != "https://cdn.example.com/m2.jpg" {
		t.Errorf("CoverURL() = %s, 重排后 0 号应成为封面", draft.CoverURL())
	}
}

func TestDraftService_ReorderMedia_InvalidPermutation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	addTestMedia(t, svc, 1, 3)

	tests := []struct {
		name string
		ids  []string
	}{
		{"数量不足", []string{"media-0", "media-1"}},
		{"包含未知ID", []string{"media-0", "media-1", "media-99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ReorderMedia(ctx, 1, tt.ids); !errors.Is(err, ErrInvalidMediaOrder) {
				t.Errorf("error = %v, want ErrInvalidMediaOrder", err)
			}
		})
	}
}

// ==================== 移除测试 ====================

func TestDraftService_RemoveMedia(t *testing.T) {
	svc, db, canceller := newTestService(t)
	ctx := context.Background()

	addTestMedia(t, svc, 1, 3)

	draft, err := svc.RemoveMedia(ctx, 1, "media-0")
	if err != nil {
		t.Fatalf("RemoveMedia() error = %v", err)
	}

	if len(draft.Media) != 2 {
		t.Fatalf("len(Media) = %d, want 2", len(draft.Media))
	}

	// 进度任务先被取消
	if len(canceller.cancelled) != 1 || canceller.cancelled[0] != "media-0" {
		t.Errorf("cancelled = %v, 移除前应取消对应进度任务", canceller.cancelled)
	}

	// 剩余媒体位置压实，新封面顶上
	if draft.Media[0].MediaID != "media-1" || draft.Media[0].Position != 0 {
		t.Errorf("Media[0] = %s (pos %d), want media-1 (pos 0)", draft.Media[0].MediaID, draft.Media[0].Position)
	}
	if draft.Media[1].Position != 1 {
		t.Errorf("Media[1].Position = %d, want 1", draft.Media[1].Position)
	}

	// 存储对象登记为孤儿
	var orphans []model.OrphanMedia
	db.Find(&orphans)
	if len(orphans) != 1 || orphans[0].URL != "https://cdn.example.com/m0.jpg" {
		t.Errorf("orphans = %v, 被移除媒体的URL应登记待清理", orphans)
	}
}

func TestDraftService_RemoveMedia_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	addTestMedia(t, svc, 1, 1)

	if _, err := svc.RemoveMedia(ctx, 1, "no-such-id"); !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("error = %v, want ErrMediaNotFound", err)
	}
}

// ==================== 步骤导航测试 ====================

func TestDraftService_SetStep(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)

	// 纯指针移动：即使校验不会通过也允许跳转，守卫在各步骤接口处
	draft, err := svc.SetStep(ctx, 1, model.StepPreview)
	if err != nil {
		t.Fatalf("SetStep() error = %v", err)
	}
	if draft.CurrentStep != model.StepPreview {
		t.Errorf("CurrentStep = %s, want preview", draft.CurrentStep)
	}

	// 回退不丢数据
	draft, err = svc.SetStep(ctx, 1, model.StepDetails)
	if err != nil {
		t.Fatalf("SetStep() error = %v", err)
	}
	if draft.Title == "" {
		t.Error("回退导航不应丢失已录入数据")
	}
}

func TestDraftService_SetStep_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.SetStep(context.Background(), 1, "checkout"); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("error = %v, want ErrInvalidStep", err)
	}
}

// ==================== 预览测试 ====================

func TestDraftService_Preview_GuardRedirects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// 空草稿：标题缺失
	preview, err := svc.Preview(ctx, 1)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.RedirectTo != model.StepDetails {
		t.Errorf("RedirectTo = %s, want details", preview.RedirectTo)
	}
	if preview.Draft != nil {
		t.Error("守卫未通过时不应返回组合视图")
	}

	// 有标题但没有媒体
	fillValidDetails(t, svc, 1)
	preview, err = svc.Preview(ctx, 1)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.RedirectTo != model.StepDetails {
		t.Errorf("RedirectTo = %s, 无媒体时同样应退回", preview.RedirectTo)
	}
}

func TestDraftService_Preview_Composite(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)
	addTestMedia(t, svc, 1, 2)

	preview, err := svc.Preview(ctx, 1)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if preview.RedirectTo != "" {
		t.Fatalf("RedirectTo = %s, 守卫应通过", preview.RedirectTo)
	}
	if preview.Draft == nil {
		t.Fatal("应返回组合视图")
	}
	if preview.CoverURL != "https://cdn.example.com/m0.jpg" {
		t.Errorf("CoverURL = %s, want 0 号媒体", preview.CoverURL)
	}
	if len(preview.Draft.Media) != 2 {
		t.Errorf("len(Media) = %d, want 2", len(preview.Draft.Media))
	}
}

// ==================== 发布测试 ====================

func TestDraftService_Publish_TermsRequired(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Publish(context.Background(), 1, false); !errors.Is(err, ErrTermsNotAccepted) {
		t.Errorf("error = %v, want ErrTermsNotAccepted", err)
	}
}

func TestDraftService_Publish_Success(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)
	addTestMedia(t, svc, 1, 2)

	result, err := svc.Publish(ctx, 1, true)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.ListingID != 100 {
		t.Errorf("ListingID = %d, want 100", result.ListingID)
	}

	// 发布成功后草稿清空，步骤回到 details
	draft, err := svc.GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !draft.IsEmpty() {
		t.Error("发布成功后草稿应被清空")
	}
	if draft.CurrentStep != model.StepDetails {
		t.Errorf("CurrentStep = %s, want details", draft.CurrentStep)
	}

	var count int64
	db.Model(&model.DraftMedia{}).Count(&count)
	if count != 0 {
		t.Errorf("媒体记录数 = %d, 发布成功后应全部清除", count)
	}
}

func TestDraftService_Publish_FailureKeepsDraft(t *testing.T) {
	db := setupServiceTestDB(t)
	uow := repository.NewDraftUnitOfWork(db)
	svc := NewDraftService(
		uow,
		repository.NewOrphanMediaRepository(db),
		&mockPublisher{
			createFromDraftFn: func(ctx context.Context, draft *model.AdDraft) (int64, error) {
				return 0, errors.New("上游服务不可用")
			},
		},
		&mockCanceller{},
	)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)
	addTestMedia(t, svc, 1, 2)

	if _, err := svc.Publish(ctx, 1, true); err == nil {
		t.Fatal("发布失败应返回错误")
	}

	// 草稿原样保留，用户可重试
	draft, err := svc.GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if draft.IsEmpty() {
		t.Error("发布失败后草稿应保留")
	}
	if len(draft.Media) != 2 {
		t.Errorf("len(Media) = %d, want 2", len(draft.Media))
	}
}

// ==================== 重置测试 ====================

func TestDraftService_ResetFormData_KeepsStep(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)
	if _, err := svc.SetStep(ctx, 1, model.StepMedia); err != nil {
		t.Fatalf("SetStep() error = %v", err)
	}

	draft, err := svc.ResetFormData(ctx, 1)
	if err != nil {
		t.Fatalf("ResetFormData() error = %v", err)
	}

	if !draft.IsEmpty() {
		t.Error("重置后所有字段应恢复默认值")
	}
	if draft.Condition != model.ConditionUsed {
		t.Errorf("Condition = %s, want used", draft.Condition)
	}
	if draft.CurrentStep != model.StepMedia {
		t.Errorf("CurrentStep = %s, 重置不应改变步骤指针", draft.CurrentStep)
	}
}

func TestDraftService_ResetFormData_ClearsMedia(t *testing.T) {
	svc, db, canceller := newTestService(t)
	ctx := context.Background()

	fillValidDetails(t, svc, 1)
	addTestMedia(t, svc, 1, 3)

	draft, err := svc.ResetFormData(ctx, 1)
	if err != nil {
		t.Fatalf("ResetFormData() error = %v", err)
	}

	// "重新开始"丢弃媒体，不只是清空文字字段
	if len(draft.Media) != 0 {
		t.Errorf("len(Media) = %d, want 0", len(draft.Media))
	}

	// 每条媒体的进度任务都被取消
	if len(canceller.cancelled) != 3 {
		t.Errorf("取消任务数 = %d, want 3", len(canceller.cancelled))
	}

	// 存储对象登记为孤儿等待清理
	var orphanCount int64
	db.Model(&model.OrphanMedia{}).Count(&orphanCount)
	if orphanCount != 3 {
		t.Errorf("孤儿记录数 = %d, want 3", orphanCount)
	}
}

// ==================== 完整流程测试 ====================

func TestDraftService_FullWizardFlow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// details 步骤
	fillValidDetails(t, svc, 1)
	draft, fieldErrs, err := svc.AdvanceDetails(ctx, 1)
	if err != nil || fieldErrs != nil {
		t.Fatalf("AdvanceDetails() = %v, %v", fieldErrs, err)
	}
	if draft.CurrentStep != model.StepMedia {
		t.Fatalf("CurrentStep = %s, want media", draft.CurrentStep)
	}

	// media 步骤
	addTestMedia(t, svc, 1, 3)
	draft, err = svc.AdvanceMedia(ctx, 1)
	if err != nil {
		t.Fatalf("AdvanceMedia() error = %v", err)
	}
	if draft.CurrentStep != model.StepPreview {
		t.Fatalf("CurrentStep = %s, want preview", draft.CurrentStep)
	}

	// preview + 发布
	preview, err := svc.Preview(ctx, 1)
	if err != nil || preview.RedirectTo != "" {
		t.Fatalf("Preview() = %+v, %v", preview, err)
	}

	result, err := svc.Publish(ctx, 1, true)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.ListingID == 0 {
		t.Error("应返回新商品ID")
	}
}
