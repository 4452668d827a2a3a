package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/middleware"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/service"
)

// ==================== 控制器 ====================

// DraftController 发布向导控制器
type DraftController struct {
	draftService  *service.DraftService
	uploadService *service.UploadService
	aiService     *service.AIService
}

func NewDraftController(
	draftService *service.DraftService,
	uploadService *service.UploadService,
	aiService *service.AIService,
) *DraftController {
	return &DraftController{
		draftService:  draftService,
		uploadService: uploadService,
		aiService:     aiService,
	}
}

// ==================== 草稿获取 ====================

// GetMyDraft 获取当前用户的草稿
// @Summary 获取当前草稿（首次访问隐式创建）
// @Tags Draft
// @Produce json
// @Success 200 {object} dto.DraftVO
// @Router /api/drafts/me [get]
func (ctrl *DraftController) GetMyDraft(c *gin.Context) {
	userID := middleware.GetUserID(c)

	draft, err := ctrl.draftService.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "获取草稿失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// ==================== Details 步骤 ====================

// UpdateDetails 部分更新基本信息
// @Summary 保存基本信息（部分更新，请求未携带的字段不受影响）
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body dto.UpdateDetailsRequest true "更新内容"
// @Success 200 {object} dto.DraftVO
// @Router /api/drafts/me/details [patch]
func (ctrl *DraftController) UpdateDetails(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.draftService.UpdateDetails(c.Request.Context(), userID, &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrTooManyTags) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// AdvanceDetails 校验基本信息并进入媒体步骤
// @Summary 提交基本信息，校验通过后进入 media 步骤
// @Tags Draft
// @Produce json
// @Success 200 {object} dto.DraftVO
// @Failure 422 {object} map[string]string "逐字段错误"
// @Router /api/drafts/me/details/advance [post]
func (ctrl *DraftController) AdvanceDetails(c *gin.Context) {
	userID := middleware.GetUserID(c)

	draft, fieldErrs, err := ctrl.draftService.AdvanceDetails(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if fieldErrs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "表单校验未通过",
			"data":    fieldErrs,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// AddTag 追加单个标签
// @Summary 追加标签，'#' 前缀会被剥离
// @Tags Draft
// @Accept json
// @Produce json
// @Router /api/drafts/me/tags [post]
func (ctrl *DraftController) AddTag(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		Tag string `json:"tag" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.draftService.AddTag(c.Request.Context(), userID, req.Tag)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, service.ErrDuplicateTag) && !errors.Is(err, service.ErrTooManyTags) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// ==================== Media 步骤 ====================

// UploadMedia 批量接收媒体文件
// @Summary 批量上传媒体，单个文件被拒不影响同批其他文件
// @Tags Draft
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "媒体文件（可多选）"
// @Success 200 {object} dto.MediaBatchReport
// @Router /api/drafts/me/media [post]
func (ctrl *DraftController) UploadMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "解析上传表单失败: " + err.Error(),
		})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "未选择任何文件",
		})
		return
	}

	draft, err := ctrl.draftService.GetOrCreate(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	files := make([]service.IncomingFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file := service.IncomingFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}
		// 超限文件不读入内存，交由接收规则拒绝
		if fh.Size <= model.MaxMediaFileSize {
			f, err := fh.Open()
			if err == nil {
				file.Data, _ = io.ReadAll(f)
				f.Close()
			}
		}
		files = append(files, file)
	}

	report, accepted := ctrl.uploadService.AcceptBatch(ctx, userID, draft.RemainingMediaSlots(), files)

	if len(accepted) > 0 {
		combined := append(draft.Media, accepted...)
		if _, err := ctrl.draftService.UpdateMedia(ctx, userID, combined); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		// 进度任务在记录落库之后才启动
		ctrl.uploadService.BeginProgress(userID, accepted)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// ReorderMedia 重排媒体
// @Summary 按 id 列表重排媒体，0 号为封面
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body dto.ReorderMediaRequest true "新顺序"
// @Router /api/drafts/me/media/order [put]
func (ctrl *DraftController) ReorderMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ReorderMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.draftService.ReorderMedia(c.Request.Context(), userID, req.MediaIDs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidMediaOrder) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// RemoveMedia 移除单个媒体
// @Summary 移除媒体并取消其上传进度任务
// @Tags Draft
// @Param media_id path string true "媒体ID"
// @Produce json
// @Router /api/drafts/me/media/{media_id} [delete]
func (ctrl *DraftController) RemoveMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mediaID := c.Param("media_id")

	draft, err := ctrl.draftService.RemoveMedia(c.Request.Context(), userID, mediaID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMediaNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// AdvanceMedia 媒体步骤完成，进入预览
// @Summary 进入 preview 步骤
// @Tags Draft
// @Produce json
// @Router /api/drafts/me/media/advance [post]
func (ctrl *DraftController) AdvanceMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)

	draft, err := ctrl.draftService.AdvanceMedia(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// ==================== 步骤导航 ====================

// SetStep 步骤跳转
// @Summary 移动步骤指针（用于回退导航，不做校验）
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body dto.SetStepRequest true "目标步骤"
// @Router /api/drafts/me/step [put]
func (ctrl *DraftController) SetStep(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.SetStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := ctrl.draftService.SetStep(c.Request.Context(), userID, req.Step)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidStep) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// ==================== Preview / 发布 ====================

// Preview 获取预览视图
// @Summary 获取只读预览；守卫未通过时返回退回指示
// @Tags Draft
// @Produce json
// @Success 200 {object} dto.PreviewResponse
// @Router /api/drafts/me/preview [get]
func (ctrl *DraftController) Preview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	preview, err := ctrl.draftService.Preview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    preview,
	})
}

// Publish 确认发布
// @Summary 发布草稿为正式商品；失败时草稿保留可重试
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body dto.PublishRequest true "发布确认"
// @Success 200 {object} dto.PublishResult
// @Router /api/drafts/me/publish [post]
func (ctrl *DraftController) Publish(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	result, err := ctrl.draftService.Publish(c.Request.Context(), userID, req.TermsAccepted)
	if err != nil {
		var fieldErrs service.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   "表单校验未通过",
				"data":    fieldErrs,
			})
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrTermsNotAccepted) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "发布成功",
		"data":    result,
	})
}

// Reset 重置表单
// @Summary 清空所有字段恢复默认值，步骤指针不变
// @Tags Draft
// @Produce json
// @Router /api/drafts/me/reset [post]
func (ctrl *DraftController) Reset(c *gin.Context) {
	userID := middleware.GetUserID(c)

	draft, err := ctrl.draftService.ResetFormData(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service.ToDraftVO(draft),
	})
}

// ==================== 进度推送 ====================

// StreamProgress SSE 订阅上传进度
// @Summary SSE 实时推送当前用户的上传进度
// @Tags Draft
// @Produce text/event-stream
// @Router /api/drafts/me/progress/stream [get]
func (ctrl *DraftController) StreamProgress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	progressCh := ctrl.uploadService.Subscribe(userID)
	defer ctrl.uploadService.Unsubscribe(userID, progressCh)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case <-ticker.C:
			// 心跳
			c.SSEvent("heartbeat", gin.H{"time": time.Now().Unix()})
			c.Writer.Flush()
		case event, ok := <-progressCh:
			if !ok {
				return
			}
			data, _ := json.Marshal(event)
			c.SSEvent("progress", string(data))
			c.Writer.Flush()
		}
	}
}

// ==================== AI 建议 ====================

// Suggest AI 文案建议
// @Summary 根据关键词生成标题、描述、标签建议
// @Tags Draft
// @Param keywords query string true "关键词"
// @Param style query string false "风格提示"
// @Produce json
// @Success 200 {object} dto.SuggestResponse
// @Router /api/drafts/me/suggest [get]
func (ctrl *DraftController) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "参数错误: " + err.Error(),
		})
		return
	}

	result, err := ctrl.aiService.SuggestListingContent(c.Request.Context(), req.Keywords, req.Style)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
