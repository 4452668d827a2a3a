package task

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"soko_market_v1/internal/repository"
)

// ==================== 接口定义 ====================

// StorageProvider 存储接口
type StorageProvider interface {
	Delete(ctx context.Context, url string) error
}

// ==================== MediaCleanupTask 孤儿媒体清理任务 ====================

// MediaCleanupTask 定时释放不再被任何草稿引用的存储对象
// 媒体移除接口只做登记，真正的对象删除全部走这里
type MediaCleanupTask struct {
	orphanRepo repository.OrphanMediaRepository
	storage    StorageProvider
	cron       *cron.Cron

	batchSize int
}

// NewMediaCleanupTask 创建清理任务
func NewMediaCleanupTask(orphanRepo repository.OrphanMediaRepository, storage StorageProvider) *MediaCleanupTask {
	return &MediaCleanupTask{
		orphanRepo: orphanRepo,
		storage:    storage,
		cron:       cron.New(cron.WithSeconds()),
		batchSize:  50,
	}
}

// Start 启动定时任务
func (t *MediaCleanupTask) Start() {
	// 定时策略：每 5 分钟执行
	_, err := t.cron.AddFunc("0 */5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[MediaCleanupTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[MediaCleanupTask] 定时任务已启动 (每5分钟)")
}

// Stop 停止定时任务
func (t *MediaCleanupTask) Stop() {
	t.cron.Stop()
	log.Println("[MediaCleanupTask] 定时任务已停止")
}

// execute 扫描并处理一批待删除记录
func (t *MediaCleanupTask) execute(ctx context.Context) {
	rows, err := t.orphanRepo.FindPending(ctx, t.batchSize)
	if err != nil {
		log.Printf("[MediaCleanupTask] 查询待清理记录失败: %v", err)
		return
	}
	if len(rows) == 0 {
		return
	}

	log.Printf("[MediaCleanupTask] 发现 %d 条待清理记录", len(rows))

	deleted, failed := 0, 0
	for _, row := range rows {
		// 会话级引用没有对应的存储对象
		if strings.HasPrefix(row.URL, "preview://") {
			_ = t.orphanRepo.MarkDeleted(ctx, row.ID)
			deleted++
			continue
		}

		if err := t.storage.Delete(ctx, row.URL); err != nil {
			log.Printf("[MediaCleanupTask] 删除存储对象失败 (id=%d): %v", row.ID, err)
			_ = t.orphanRepo.MarkFailed(ctx, row.ID)
			failed++
			continue
		}

		_ = t.orphanRepo.MarkDeleted(ctx, row.ID)
		deleted++
	}

	log.Printf("[MediaCleanupTask] 清理完成: 成功 %d, 失败 %d", deleted, failed)
}

// RunOnce 手动触发一轮清理（测试用）
func (t *MediaCleanupTask) RunOnce(ctx context.Context) {
	t.execute(ctx)
}
