package controller

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// CreateLessonRequest 创建课时请求
// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	SectionID   string `json:"sectionId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	ContentType string `json:"contentType" binding:"required,oneof=video material quiz"`
}

// Create godoc
// @Summary 创建课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   body body CreateLessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 404 {object} util.Response "章节不存在"
// @Security BearerAuth
// @Router /api/lesson [post]
func (lc *LessonController) Create(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := lc.LessonService.Create(req.SectionID, req.Title, model.LessonContentType(req.ContentType), claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSectionNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

// Get godoc
// @Summary 查询课时
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课时不存在"
// @Security BearerAuth
// @Router /api/lesson/{id} [get]
func (lc *LessonController) Get(ctx *gin.Context) {
	lesson, err := lc.LessonService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// RenameLessonRequest 重命名课时请求
type RenameLessonRequest struct {
	Title string `json:"title" binding:"required"`
}

// Rename godoc
// @Summary 重命名课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   id path string true "课时ID"
// @Param   body body RenameLessonRequest true "新标题"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Security BearerAuth
// @Router /api/lesson/{id} [put]
func (lc *LessonController) Rename(ctx *gin.Context) {
	var req RenameLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := lc.LessonService.Rename(ctx.Param("id"), req.Title, claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// SwitchContentTypeRequest 切换内容类型请求
type SwitchContentTypeRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=video material quiz"`
}

// SwitchContentType godoc
// @Summary 切换课时内容类型
// @Description 破坏性操作：旧类型的内容（视频/附件/测验）会被回收
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   id path string true "课时ID"
// @Param   body body SwitchContentTypeRequest true "目标类型"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课时不存在"
// @Security BearerAuth
// @Router /api/lesson/{id}/content-type [put]
func (lc *LessonController) SwitchContentType(ctx *gin.Context) {
	var req SwitchContentTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := lc.LessonService.SwitchContentType(ctx.Request.Context(), ctx.Param("id"), model.LessonContentType(req.ContentType), claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrInvalidContentType):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary 删除课时
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response "已删除"
// @Security BearerAuth
// @Router /api/lesson/{id} [delete]
func (lc *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := lc.LessonService.Delete(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role == "admin"); err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
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

// ReorderLessonsRequest 课时排序请求
type ReorderLessonsRequest struct {
	SectionID  string   `json:"sectionId" binding:"required"`
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}

// Reorder godoc
// @Summary 调整章节内课时顺序
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   body body ReorderLessonsRequest true "有序课时ID列表"
// @Success 200 {object} util.Response "已更新"
// @Security BearerAuth
// @Router /api/lesson/reorder [put]
func (lc *LessonController) Reorder(ctx *gin.Context) {
	var req ReorderLessonsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := lc.LessonService.Reorder(req.SectionID, req.OrderedIDs, claims.UserID, claims.Role == "admin"); err != nil {
		switch {
		case errors.Is(err, util.ErrSectionNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"reordered": true})
}
