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

// AdminService 后台管理：分类、折扣码、课程审核、退款审核、封禁
type AdminService struct {
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository
	CategoryRepo   *repository.CategoryRepository
	VoucherRepo    *repository.VoucherRepository
	RefundRepo     *repository.RefundRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewAdminService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	voucherRepo *repository.VoucherRepository,
	refundRepo *repository.RefundRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *AdminService {
	return &AdminService{
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		CategoryRepo:   categoryRepo,
		VoucherRepo:    voucherRepo,
		RefundRepo:     refundRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// ReviewCourse 审核课程：approve 上架，否则驳回并记录原因
func (s *AdminService) ReviewCourse(courseID string, approve bool, rejectReason string) error {
	courseID = util.NormalizeID(courseID)
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	status := model.CourseApproved
	if !approve {
		status = model.CourseRejected
	} else {
		rejectReason = ""
	}
	if err := s.CourseRepo.UpdateStatus(course.ID, status, rejectReason); err != nil {
		return err
	}

	logger.Log.Info("course reviewed",
		zap.String("courseId", courseID), zap.String("status", string(status)))
	return nil
}

func (s *AdminService) ListPendingCourses(page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.ListByStatus(model.CoursePending, page, limit)
}

// ReviewRefund 审核退款：通过时把报名记录标记为已退款
func (s *AdminService) ReviewRefund(refundID uint, reviewerID uint, approve bool, note string) (*model.Refund, error) {
	refund, err := s.RefundRepo.FindByID(refundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRefundNotFound
		}
		return nil, err
	}
	if refund.Status != model.RefundPending {
		return nil, util.ErrRefundAlreadyReviewed
	}

	now := time.Now()
	refund.ReviewerID = &reviewerID
	refund.ReviewNote = note
	refund.ReviewedAt = &now
	if approve {
		refund.Status = model.RefundApproved
	} else {
		refund.Status = model.RefundRejected
	}
	if err := s.RefundRepo.Update(refund); err != nil {
		return nil, err
	}

	if approve {
		if err := s.EnrollmentRepo.MarkRefunded(refund.EnrollmentID); err != nil {
			logger.Log.Error("mark enrollment refunded failed",
				zap.Error(err), zap.Uint("enrollmentId", refund.EnrollmentID))
		}
	}

	logger.Log.Info("refund reviewed",
		zap.Uint("refundId", refundID), zap.String("status", string(refund.Status)), zap.Uint("reviewerId", reviewerID))
	return refund, nil
}

func (s *AdminService) ListPendingRefunds(page, limit int) ([]model.Refund, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.RefundRepo.ListByStatus(model.RefundPending, page, limit)
}

func (s *AdminService) SetUserBanned(userID uint, banned bool) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.SetBanned(userID, banned)
}

func (s *AdminService) CreateCategory(name, slug, icon string) (*model.Category, error) {
	category := &model.Category{Name: name, Slug: slug, Icon: icon}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *AdminService) ListCategories() ([]model.Category, error) {
	return s.CategoryRepo.List()
}

func (s *AdminService) DeleteCategory(id uint) error {
	return s.CategoryRepo.Delete(id)
}

func (s *AdminService) CreateVoucher(code string, discountPct, maxUses int, validFrom time.Time, validUntil *time.Time) (*model.Voucher, error) {
	if discountPct < 1 || discountPct > 100 {
		return nil, errors.New("discount percentage must be between 1 and 100")
	}
	voucher := &model.Voucher{
		Code:        code,
		DiscountPct: discountPct,
		MaxUses:     maxUses,
		ValidFrom:   validFrom,
		ValidUntil:  validUntil,
		Enabled:     true,
	}
	if err := s.VoucherRepo.Create(voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

func (s *AdminService) ListVouchers() ([]model.Voucher, error) {
	return s.VoucherRepo.List()
}

func (s *AdminService) SetVoucherEnabled(id uint, enabled bool) error {
	return s.VoucherRepo.SetEnabled(id, enabled)
}

func (s *AdminService) DeleteVoucher(id uint) error {
	return s.VoucherRepo.Delete(id)
}
