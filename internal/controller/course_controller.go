package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// Create godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Security BearerAuth
// @Router /api/course [post]
func (cc *CourseController) Create(ctx *gin.Context) {
	var in service.CourseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := cc.CourseService.Create(claims.UserID, in)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Get godoc
// @Summary 查询课程（含章节和课时树）
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/course/{id} [get]
func (cc *CourseController) Get(ctx *gin.Context) {
	course, err := cc.CourseService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary 更新课程信息
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   id path string true "课程ID"
// @Param   body body service.CourseInput true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Security BearerAuth
// @Router /api/course/{id} [put]
func (cc *CourseController) Update(ctx *gin.Context) {
	var in service.CourseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := cc.CourseService.Update(ctx.Param("id"), claims.UserID, in)
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
	util.Success(ctx, course)
}

// Submit godoc
// @Summary 提交课程送审
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Security BearerAuth
// @Router /api/course/{id}/submit [post]
func (cc *CourseController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	course, err := cc.CourseService.Submit(ctx.Param("id"), claims.UserID)
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
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程及其下全部内容
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response "已删除"
// @Security BearerAuth
// @Router /api/course/{id} [delete]
func (cc *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	isAdmin := claims.Role == "admin"
	if err := cc.CourseService.Delete(ctx.Request.Context(), ctx.Param("id"), claims.UserID, isAdmin); err != nil {
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
	util.Success(ctx, gin.H{"deleted": true})
}

// ListMine godoc
// @Summary 讲师名下的课程列表
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Security BearerAuth
// @Router /api/course/mine [get]
func (cc *CourseController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := cc.CourseService.ListByInstructor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Browse godoc
// @Summary 浏览已上架课程
// @Tags 课程
// @Produce  json
// @Param   categoryId query int false "分类ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/course [get]
func (cc *CourseController) Browse(ctx *gin.Context) {
	categoryID := util.MustParseUint(ctx.Query("categoryId"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := cc.CourseService.Browse(categoryID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}
