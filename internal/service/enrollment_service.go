package service

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollmentService 课程报名与退款申请
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	VoucherRepo    *repository.VoucherRepository
	RefundRepo     *repository.RefundRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	voucherRepo *repository.VoucherRepository,
	refundRepo *repository.RefundRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		VoucherRepo:    voucherRepo,
		RefundRepo:     refundRepo,
	}
}

// Enroll 报名课程，可附带折扣码
func (s *EnrollmentService) Enroll(userID uint, courseID, voucherCode string) (*model.Enrollment, error) {
	courseID = util.NormalizeID(courseID)
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Status != model.CourseApproved {
		return nil, util.ErrCourseNotApproved
	}

	if existing, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil && !existing.Refunded {
		return nil, util.ErrAlreadyEnrolled
	}

	price := course.Price
	var voucherID *uint
	if voucherCode != "" {
		voucher, err := s.VoucherRepo.FindByCode(voucherCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrVoucherNotFound
			}
			return nil, err
		}
		if !voucher.IsUsable(time.Now()) {
			return nil, util.ErrVoucherExpired
		}
		price = price * float64(100-voucher.DiscountPct) / 100
		voucherID = &voucher.ID
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		PricePaid:  price,
		VoucherID:  voucherID,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}

	if voucherID != nil {
		if err := s.VoucherRepo.IncrementUsed(*voucherID); err != nil {
			logger.Log.Warn("increment voucher usage failed", zap.Error(err), zap.Uint("voucherId", *voucherID))
		}
	}

	logger.Log.Info("user enrolled",
		zap.Uint("userId", userID), zap.String("courseId", courseID), zap.Float64("pricePaid", price))
	return enrollment, nil
}

func (s *EnrollmentService) ListMine(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

// RequestRefund 提交退款申请，等待管理员审核
func (s *EnrollmentService) RequestRefund(userID uint, enrollmentID uint, reason string) (*model.Refund, error) {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if enrollment.Refunded {
		return nil, util.ErrRefundAlreadyReviewed
	}

	refund := &model.Refund{
		EnrollmentID: enrollmentID,
		UserID:       userID,
		Reason:       reason,
		Status:       model.RefundPending,
	}
	if err := s.RefundRepo.Create(refund); err != nil {
		return nil, err
	}
	return refund, nil
}

func (s *EnrollmentService) ListMyRefunds(userID uint) ([]model.Refund, error) {
	return s.RefundRepo.ListByUser(userID)
}
