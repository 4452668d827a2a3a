package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/model"
)

// ==================== 接收规则 ====================

// 允许的 MIME 类型
var acceptedMimeTypes = map[string]string{
	"image/png":       model.MediaTypeImage,
	"image/jpeg":      model.MediaTypeImage,
	"image/jpg":       model.MediaTypeImage,
	"image/webp":      model.MediaTypeImage,
	"video/mp4":       model.MediaTypeVideo,
	"video/webm":      model.MediaTypeVideo,
	"video/quicktime": model.MediaTypeVideo,
}

// IncomingFile 一个待接收的上传文件
type IncomingFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ==================== 外部依赖 ====================

// BlobUploader 存储上传接口，由 StorageService 实现
type BlobUploader interface {
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)
}

// ==================== 服务实现 ====================

// UploadService 媒体接收与进度推送
// 进度是合成值，不反映真实网络传输；每个文件一个可取消的任务句柄，
// 媒体被移除时句柄先被取消，不会留下孤儿定时器
type UploadService struct {
	storage BlobUploader

	// 进度状态，按 mediaID 分键
	mu       sync.Mutex
	tasks    map[string]context.CancelFunc
	progress map[string]int

	// 进度订阅，按 userID 分键
	subscribers     map[int64][]chan dto.ProgressEvent
	subscriberMutex sync.RWMutex

	// 模拟参数，测试时调小
	tickInterval time.Duration
	clearDelay   time.Duration
}

// NewUploadService 创建上传服务
func NewUploadService(storage BlobUploader) *UploadService {
	return &UploadService{
		storage:      storage,
		tasks:        make(map[string]context.CancelFunc),
		progress:     make(map[string]int),
		subscribers:  make(map[int64][]chan dto.ProgressEvent),
		tickInterval: 150 * time.Millisecond,
		clearDelay:   time.Second,
	}
}

// SetTiming 调整模拟节奏（测试用）
func (s *UploadService) SetTiming(tick, clear time.Duration) {
	s.tickInterval = tick
	s.clearDelay = clear
}

// ==================== 批量接收 ====================

// AcceptBatch 接收一批文件
// 单个文件被拒（类型、大小）不影响同批其他文件；
// 超出剩余槽位时只接收前面的子集，其余在 Skipped 中报告。
// 只做接收判定与落盘，进度任务由 BeginProgress 在记录持久化之后启动
func (s *UploadService) AcceptBatch(ctx context.Context, userID int64, remainingSlots int, files []IncomingFile) (*dto.MediaBatchReport, []model.DraftMedia) {
	report := &dto.MediaBatchReport{}
	var accepted []model.DraftMedia

	for _, f := range files {
		// 槽位用尽后剩余文件整体跳过
		if len(accepted) >= remainingSlots {
			report.Skipped = append(report.Skipped, f.Name)
			continue
		}

		mediaType, ok := acceptedMimeTypes[f.ContentType]
		if !ok {
			report.Rejected = append(report.Rejected, dto.RejectedFile{
				Name:   f.Name,
				Reason: fmt.Sprintf("不支持的文件类型: %s", f.ContentType),
			})
			continue
		}

		if f.Size > model.MaxMediaFileSize {
			report.Rejected = append(report.Rejected, dto.RejectedFile{
				Name:   f.Name,
				Reason: fmt.Sprintf("文件过大: %.1f MB，上限 50 MB", float64(f.Size)/1024/1024),
			})
			continue
		}

		mediaID := uuid.New().String()

		url := s.storeBlob(ctx, mediaID, f)

		media := model.DraftMedia{
			MediaID: mediaID,
			URL:     url,
			Type:    mediaType,
			Name:    f.Name,
			Size:    f.Size,
			Data:    f.Data,
		}
		accepted = append(accepted, media)

		report.Accepted = append(report.Accepted, dto.MediaVO{
			ID:   mediaID,
			URL:  url,
			Type: mediaType,
			Name: f.Name,
			Size: f.Size,
		})
	}

	return report, accepted
}

// BeginProgress 为一批已持久化的媒体启动进度任务
// 持久化失败的批次不会走到这里，不会出现为幽灵媒体推送进度的任务
func (s *UploadService) BeginProgress(userID int64, media []model.DraftMedia) {
	for _, m := range media {
		s.startProgress(userID, m.MediaID)
	}
}

// storeBlob 保存字节到存储，未配置存储时退化为会话级引用
func (s *UploadService) storeBlob(ctx context.Context, mediaID string, f IncomingFile) string {
	if s.storage == nil || len(f.Data) == 0 {
		return "preview://" + mediaID
	}
	url, err := s.storage.Upload(ctx, f.Data, f.Name, f.ContentType)
	if err != nil {
		// 存储失败不拒收文件，进度模拟照常，引用退化为会话级
		return "preview://" + mediaID
	}
	return url
}

// ==================== 进度模拟 ====================

// startProgress 启动合成进度任务
// 进度以随机步长推进到 100，短暂停留后清除；句柄可被 Cancel 提前终止
func (s *UploadService) startProgress(userID int64, mediaID string) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.tasks[mediaID] = cancel
	s.progress[mediaID] = 0
	s.mu.Unlock()

	go s.runProgress(ctx, userID, mediaID)
}

func (s *UploadService) runProgress(ctx context.Context, userID int64, mediaID string) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// 被取消：清掉键，不再发布任何事件
			s.mu.Lock()
			delete(s.progress, mediaID)
			delete(s.tasks, mediaID)
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.mu.Lock()
			p := s.progress[mediaID] + 5 + rand.Intn(16)
			if p >= 100 {
				p = 100
			}
			s.progress[mediaID] = p
			s.mu.Unlock()

			s.notifyProgress(userID, dto.ProgressEvent{
				MediaID:  mediaID,
				Progress: p,
				Done:     p == 100,
			})

			if p == 100 {
				// 到达 100 后短暂停留再清除进度指示
				select {
				case <-ctx.Done():
				case <-time.After(s.clearDelay):
				}
				s.mu.Lock()
				delete(s.progress, mediaID)
				delete(s.tasks, mediaID)
				s.mu.Unlock()
				return
			}
		}
	}
}

// Cancel 取消指定媒体的进度任务
// 实现 UploadCanceller；对不存在的键是空操作
func (s *UploadService) Cancel(mediaID string) {
	s.mu.Lock()
	cancel, ok := s.tasks[mediaID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// Progress 查询当前进度，任务不存在时返回 (0, false)
func (s *UploadService) Progress(mediaID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[mediaID]
	return p, ok
}

// ==================== 进度订阅 ====================

// Subscribe 订阅用户的上传进度
func (s *UploadService) Subscribe(userID int64) chan dto.ProgressEvent {
	s.subscriberMutex.Lock()
	defer s.subscriberMutex.Unlock()

	ch := make(chan dto.ProgressEvent, 16)
	s.subscribers[userID] = append(s.subscribers[userID], ch)
	return ch
}

// Unsubscribe 取消订阅
func (s *UploadService) Unsubscribe(userID int64, ch chan dto.ProgressEvent) {
	s.subscriberMutex.Lock()
	defer s.subscriberMutex.Unlock()

	subs := s.subscribers[userID]
	for i, sub := range subs {
		if sub == ch {
			s.subscribers[userID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}

	if len(s.subscribers[userID]) == 0 {
		delete(s.subscribers, userID)
	}
}

// notifyProgress 推送进度事件
func (s *UploadService) notifyProgress(userID int64, event dto.ProgressEvent) {
	s.subscriberMutex.RLock()
	defer s.subscriberMutex.RUnlock()

	for _, ch := range s.subscribers[userID] {
		select {
		case ch <- event:
		default:
			// channel 已满，跳过
		}
	}
}
