package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	UploadService *service.UploadService
}

func NewVideoController(uploadService *service.UploadService) *VideoController {
	return &VideoController{UploadService: uploadService}
}

// CreateUploadRequest 签发上传目标的请求
// swagger:model CreateUploadRequest
type CreateUploadRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
	Filename string `json:"filename" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"required"`
}

// CreateUpload godoc
// @Summary 签发视频上传目标
// @Description 校验文件类型后为课时创建分块上传会话，返回上传地址和标识符
// @Tags 视频
// @Accept  json
// @Produce  json
// @Param   body body CreateUploadRequest true "上传请求"
// @Success 200 {object} util.Response{data=model.UploadTarget} "上传目标"
// @Failure 400 {object} util.Response "非视频文件"
// @Failure 404 {object} util.Response "课时不存在"
// @Failure 409 {object} util.Response "该课时已有在途上传"
// @Security BearerAuth
// @Router /api/video/upload-url [post]
func (vc *VideoController) CreateUpload(ctx *gin.Context) {
	var req CreateUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	target, err := vc.UploadService.CreateUpload(ctx.Request.Context(), req.LessonID, req.Filename, req.MimeType, req.FileSize, claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotVideoFile):
			util.Error(ctx, 400, "只支持视频文件")
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrSectionNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUploadAlreadyActive):
			util.Error(ctx, 409, "该课时已有进行中的上传")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, target)
}

// UploadChunk godoc
// @Summary 上传一个视频分块
// @Description 按分块序号接收数据，收齐后自动进入处理阶段
// @Tags 视频
// @Accept  multipart/form-data
// @Produce  json
// @Param   uploadId path string true "上传会话ID"
// @Param   index formData int true "分块序号（从0开始）"
// @Param   chunk formData file true "分块数据"
// @Success 200 {object} util.Response{data=object} "当前进度"
// @Failure 404 {object} util.Response "会话不存在"
// @Security BearerAuth
// @Router /api/video/upload/{uploadId}/chunk [post]
func (vc *VideoController) UploadChunk(ctx *gin.Context) {
	uploadID := ctx.Param("uploadId")
	index, err := strconv.Atoi(ctx.PostForm("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid chunk index")
		return
	}

	file, err := ctx.FormFile("chunk")
	if err != nil {
		util.BadRequest(ctx, "chunk file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	claims := util.GetUserFromContext(ctx)
	progress, err := vc.UploadService.PutChunk(ctx.Request.Context(), uploadID, index, src, claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUploadNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUploadCancelled):
			util.Error(ctx, 410, "上传已取消")
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, gin.H{"uploadId": uploadID, "progress": progress})
}

// GetProgress godoc
// @Summary 查询上传进度
// @Tags 视频
// @Produce  json
// @Param   uploadId path string true "上传会话ID"
// @Success 200 {object} util.Response{data=model.UploadSession} "会话快照"
// @Failure 404 {object} util.Response "会话不存在"
// @Security BearerAuth
// @Router /api/video/upload/{uploadId}/progress [get]
func (vc *VideoController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	snapshot, err := vc.UploadService.GetProgress(ctx.Request.Context(), ctx.Param("uploadId"), claims.UserID, claims.Role == "admin")
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.NotFound(ctx)
		}
		return
	}
	util.Success(ctx, snapshot)
}

// CancelUpload godoc
// @Summary 取消在途上传
// @Description 幂等操作：重复取消同一会话只会触发一次资源回收
// @Tags 视频
// @Produce  json
// @Param   uploadId path string true "上传会话ID"
// @Success 200 {object} util.Response "已取消"
// @Security BearerAuth
// @Router /api/video/cancel-upload/{uploadId} [delete]
func (vc *VideoController) CancelUpload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := vc.UploadService.Cancel(ctx.Request.Context(), ctx.Param("uploadId"), claims.UserID, claims.Role == "admin"); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"cancelled": true})
}

// DeleteVideo godoc
// @Summary 删除视频资产
// @Description 删除远端对象和资产记录，并清空引用它的课时负载
// @Tags 视频
// @Produce  json
// @Param   videoId path string true "视频ID"
// @Success 200 {object} util.Response "已删除"
// @Failure 404 {object} util.Response "视频不存在"
// @Security BearerAuth
// @Router /api/video/{videoId} [delete]
func (vc *VideoController) DeleteVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := vc.UploadService.DeleteVideo(ctx.Request.Context(), ctx.Param("videoId"), claims.UserID, claims.Role == "admin"); err != nil {
		switch {
		case errors.Is(err, util.ErrVideoNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
