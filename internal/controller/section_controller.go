package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type SectionController struct {
	SectionService *service.SectionService
}

func NewSectionController(sectionService *service.SectionService) *SectionController {
	return &SectionController{SectionService: sectionService}
}

// CreateSectionRequest 创建章节请求
type CreateSectionRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required"`
}

// Create godoc
// @Summary 创建章节
// @Tags 章节
// @Accept  json
// @Produce  json
// @Param   body body CreateSectionRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Section} "创建成功"
// @Security BearerAuth
// @Router /api/section [post]
func (sc *SectionController) Create(ctx *gin.Context) {
	var req CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	section, err := sc.SectionService.Create(req.CourseID, req.Title, claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, section)
}

// RenameSectionRequest 重命名章节请求
type RenameSectionRequest struct {
	Title string `json:"title" binding:"required"`
}

// Rename godoc
// @Summary 重命名章节
// @Tags 章节
// @Accept  json
// @Produce  json
// @Param   id path string true "章节ID"
// @Param   body body RenameSectionRequest true "新标题"
// @Success 200 {object} util.Response{data=model.Section}
// @Security BearerAuth
// @Router /api/section/{id} [put]
func (sc *SectionController) Rename(ctx *gin.Context) {
	var req RenameSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	section, err := sc.SectionService.Rename(ctx.Param("id"), req.Title, claims.UserID, claims.Role == "admin")
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
	util.Success(ctx, section)
}

// ReorderSectionsRequest 章节排序请求
type ReorderSectionsRequest struct {
	CourseID   string   `json:"courseId" binding:"required"`
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}

// Reorder godoc
// @Summary 调整课程内章节顺序
// @Tags 章节
// @Accept  json
// @Produce  json
// @Param   body body ReorderSectionsRequest true "有序章节ID列表"
// @Success 200 {object} util.Response "已更新"
// @Security BearerAuth
// @Router /api/section/reorder [put]
func (sc *SectionController) Reorder(ctx *gin.Context) {
	var req ReorderSectionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	if err := sc.SectionService.Reorder(req.CourseID, req.OrderedIDs, claims.UserID, claims.Role == "admin"); err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
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

// Delete godoc
// @Summary 删除章节及其下全部课时
// @Tags 章节
// @Produce  json
// @Param   id path string true "章节ID"
// @Success 200 {object} util.Response "已删除"
// @Security BearerAuth
// @Router /api/section/{id} [delete]
func (sc *SectionController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := sc.SectionService.Delete(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role == "admin"); err != nil {
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
	util.Success(ctx, gin.H{"deleted": true})
}
