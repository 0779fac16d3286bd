package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type MaterialController struct {
	MaterialService *service.MaterialService
}

func NewMaterialController(materialService *service.MaterialService) *MaterialController {
	return &MaterialController{MaterialService: materialService}
}

// Upload godoc
// @Summary 上传课时附件
// @Tags 附件
// @Accept  multipart/form-data
// @Produce  json
// @Param   lessonId formData string false "课时ID"
// @Param   file formData file true "附件文件"
// @Success 201 {object} util.Response{data=model.Material} "上传成功"
// @Failure 400 {object} util.Response "不支持的文件类型"
// @Security BearerAuth
// @Router /api/material/upload [post]
func (mc *MaterialController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	claims := util.GetUserFromContext(ctx)
	material, err := mc.MaterialService.Upload(
		ctx.Request.Context(),
		ctx.PostForm("lessonId"),
		file.Filename,
		file.Header.Get("Content-Type"),
		file.Size,
		src,
		claims.UserID,
		claims.Role == "admin",
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrSectionNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, material)
}

// Delete godoc
// @Summary 删除课时附件
// @Tags 附件
// @Produce  json
// @Param   materialId path string true "附件ID"
// @Success 200 {object} util.Response "已删除"
// @Failure 404 {object} util.Response "附件不存在"
// @Security BearerAuth
// @Router /api/material/delete/{materialId} [delete]
func (mc *MaterialController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := mc.MaterialService.Delete(ctx.Request.Context(), ctx.Param("materialId"), claims.UserID, claims.Role == "admin"); err != nil {
		switch {
		case errors.Is(err, util.ErrMaterialNotFound):
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
