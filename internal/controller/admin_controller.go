package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
	UserService  *service.UserService
}

func NewAdminController(adminService *service.AdminService, userService *service.UserService) *AdminController {
	return &AdminController{AdminService: adminService, UserService: userService}
}

// ReviewCourseRequest 课程审核请求
type ReviewCourseRequest struct {
	Approve      bool   `json:"approve"`
	RejectReason string `json:"rejectReason"`
}

// ReviewCourse godoc
// @Summary 审核课程
// @Tags 管理后台
// @Accept  json
// @Produce  json
// @Param   id path string true "课程ID"
// @Param   body body ReviewCourseRequest true "审核结果"
// @Success 200 {object} util.Response "已处理"
// @Security BearerAuth
// @Router /api/admin/course/{id}/review [post]
func (ac *AdminController) ReviewCourse(ctx *gin.Context) {
	var req ReviewCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := ac.AdminService.ReviewCourse(ctx.Param("id"), req.Approve, req.RejectReason); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"reviewed": true})
}

// ListPendingCourses godoc
// @Summary 待审核课程列表
// @Tags 管理后台
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/admin/course/pending [get]
func (ac *AdminController) ListPendingCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := ac.AdminService.ListPendingCourses(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// ReviewRefundRequest 退款审核请求
type ReviewRefundRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ReviewRefund godoc
// @Summary 审核退款申请
// @Tags 管理后台
// @Accept  json
// @Produce  json
// @Param   id path int true "退款申请ID"
// @Param   body body ReviewRefundRequest true "审核结果"
// @Success 200 {object} util.Response{data=model.Refund}
// @Security BearerAuth
// @Router /api/admin/refund/{id}/review [post]
func (ac *AdminController) ReviewRefund(ctx *gin.Context) {
	var req ReviewRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	refund, err := ac.AdminService.ReviewRefund(util.MustParseUint(ctx.Param("id")), claims.UserID, req.Approve, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRefundNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrRefundAlreadyReviewed):
			util.Error(ctx, 409, "该申请已审核")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, refund)
}

// ListPendingRefunds godoc
// @Summary 待审核退款列表
// @Tags 管理后台
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/admin/refund/pending [get]
func (ac *AdminController) ListPendingRefunds(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	refunds, total, err := ac.AdminService.ListPendingRefunds(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: refunds, Total: total, Page: page, Limit: limit})
}

// BanUserRequest 封禁请求
type BanUserRequest struct {
	Banned bool `json:"banned"`
}

// SetUserBanned godoc
// @Summary 封禁/解封用户
// @Tags 管理后台
// @Accept  json
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   body body BanUserRequest true "封禁状态"
// @Success 200 {object} util.Response "已更新"
// @Security BearerAuth
// @Router /api/admin/user/{id}/ban [put]
func (ac *AdminController) SetUserBanned(ctx *gin.Context) {
	var req BanUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := ac.AdminService.SetUserBanned(util.MustParseUint(ctx.Param("id")), req.Banned); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"banned": req.Banned})
}

// ListUsers godoc
// @Summary 用户列表
// @Tags 管理后台
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/admin/user [get]
func (ac *AdminController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := ac.UserService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
	Icon string `json:"icon"`
}

// CreateCategory godoc
// @Summary 创建课程分类
// @Tags 管理后台
// @Accept  json
// @Produce  json
// @Param   body body CreateCategoryRequest true "分类信息"
// @Success 201 {object} util.Response{data=model.Category} "创建成功"
// @Security BearerAuth
// @Router /api/admin/category [post]
func (ac *AdminController) CreateCategory(ctx *gin.Context) {
	var req CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := ac.AdminService.CreateCategory(req.Name, req.Slug, req.Icon)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 分类
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/category [get]
func (ac *AdminController) ListCategories(ctx *gin.Context) {
	categories, err := ac.AdminService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// DeleteCategory godoc
// @Summary 删除分类
// @Tags 管理后台
// @Produce  json
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response "已删除"
// @Security BearerAuth
// @Router /api/admin/category/{id} [delete]
func (ac *AdminController) DeleteCategory(ctx *gin.Context) {
	if err := ac.AdminService.DeleteCategory(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// CreateVoucherRequest 创建折扣码请求
type CreateVoucherRequest struct {
	Code        string     `json:"code" binding:"required"`
	DiscountPct int        `json:"discountPct" binding:"required"`
	MaxUses     int        `json:"maxUses"`
	ValidFrom   time.Time  `json:"validFrom"`
	ValidUntil  *time.Time `json:"validUntil"`
}

// CreateVoucher godoc
// @Summary 创建折扣码
// @Tags 管理后台
// @Accept  json
// @Produce  json
// @Param   body body CreateVoucherRequest true "折扣码信息"
// @Success 201 {object} util.Response{data=model.Voucher} "创建成功"
// @Security BearerAuth
// @Router /api/admin/voucher [post]
func (ac *AdminController) CreateVoucher(ctx *gin.Context) {
	var req CreateVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.ValidFrom.IsZero() {
		req.ValidFrom = time.Now()
	}

	voucher, err := ac.AdminService.CreateVoucher(req.Code, req.DiscountPct, req.MaxUses, req.ValidFrom, req.ValidUntil)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, voucher)
}

// ListVouchers godoc
// @Summary 折扣码列表
// @Tags 管理后台
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Voucher}
// @Security BearerAuth
// @Router /api/admin/voucher [get]
func (ac *AdminController) ListVouchers(ctx *gin.Context) {
	vouchers, err := ac.AdminService.ListVouchers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, vouchers)
}

// SetVoucherEnabledRequest 启用/停用折扣码请求
type SetVoucherEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetVoucherEnabled godoc
// @Summary 启用/停用折扣码
// @Tags 管理后台
// @Accept  json
// @Produce  json
// @Param   id path int true "折扣码ID"
// @Param   body body SetVoucherEnabledRequest true "启用状态"
// @Success 200 {object} util.Response "已更新"
// @Security BearerAuth
// @Router /api/admin/voucher/{id}/enabled [put]
func (ac *AdminController) SetVoucherEnabled(ctx *gin.Context) {
	var req SetVoucherEnabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := ac.AdminService.SetVoucherEnabled(util.MustParseUint(ctx.Param("id")), req.Enabled); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enabled": req.Enabled})
}

// DeleteVoucher godoc
// @Summary 删除折扣码
// @Tags 管理后台
// @Produce  json
// @Param   id path int true "折扣码ID"
// @Success 200 {object} util.Response "已删除"
// @Security BearerAuth
// @Router /api/admin/voucher/{id} [delete]
func (ac *AdminController) DeleteVoucher(ctx *gin.Context) {
	if err := ac.AdminService.DeleteVoucher(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
