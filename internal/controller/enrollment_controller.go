package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// EnrollRequest 报名请求
type EnrollRequest struct {
	CourseID    string `json:"courseId" binding:"required"`
	VoucherCode string `json:"voucherCode"`
}

// Enroll godoc
// @Summary 报名课程
// @Description 可携带折扣码，折扣按百分比抵扣
// @Tags 报名
// @Accept  json
// @Produce  json
// @Param   body body EnrollRequest true "报名信息"
// @Success 201 {object} util.Response{data=model.Enrollment} "报名成功"
// @Failure 409 {object} util.Response "已报名"
// @Security BearerAuth
// @Router /api/enrollment [post]
func (ec *EnrollmentController) Enroll(ctx *gin.Context) {
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	enrollment, err := ec.EnrollmentService.Enroll(claims.UserID, req.CourseID, req.VoucherCode)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseNotApproved):
			util.Error(ctx, 400, "课程未上架")
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Error(ctx, 409, "已报名该课程")
		case errors.Is(err, util.ErrVoucherNotFound), errors.Is(err, util.ErrVoucherExpired):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, enrollment)
}

// ListMine godoc
// @Summary 我的报名列表
// @Tags 报名
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Security BearerAuth
// @Router /api/enrollment/mine [get]
func (ec *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := ec.EnrollmentService.ListMine(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// RefundRequest 退款申请
type RefundRequest struct {
	EnrollmentID uint   `json:"enrollmentId" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

// RequestRefund godoc
// @Summary 申请退款
// @Tags 报名
// @Accept  json
// @Produce  json
// @Param   body body RefundRequest true "退款申请"
// @Success 201 {object} util.Response{data=model.Refund} "已提交"
// @Security BearerAuth
// @Router /api/enrollment/refund [post]
func (ec *EnrollmentController) RequestRefund(ctx *gin.Context) {
	var req RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	refund, err := ec.EnrollmentService.RequestRefund(claims.UserID, req.EnrollmentID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrRefundAlreadyReviewed):
			util.Error(ctx, 409, "该报名已退款")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, refund)
}

// ListMyRefunds godoc
// @Summary 我的退款申请列表
// @Tags 报名
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Refund}
// @Security BearerAuth
// @Router /api/enrollment/refund/mine [get]
func (ec *EnrollmentController) ListMyRefunds(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	refunds, err := ec.EnrollmentService.ListMyRefunds(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, refunds)
}
