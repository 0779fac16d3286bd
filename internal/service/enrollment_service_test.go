package service

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, *gorm.DB, *model.Course) {
	t.Helper()
	db := newTestDB(t)
	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewVoucherRepository(db),
		repository.NewRefundRepository(db),
	)
	course := &model.Course{Title: "Go 进阶", Price: 100, Status: model.CourseApproved, InstructorID: 1}
	require.NoError(t, db.Create(course).Error)
	return svc, db, course
}

func TestEnrollAppliesVoucherDiscount(t *testing.T) {
	svc, db, course := newEnrollmentFixture(t)

	voucher := &model.Voucher{Code: "SAVE20", DiscountPct: 20, ValidFrom: time.Now().Add(-time.Hour), Enabled: true}
	require.NoError(t, db.Create(voucher).Error)

	enrollment, err := svc.Enroll(7, course.ID, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, 80.0, enrollment.PricePaid)
	require.NotNil(t, enrollment.VoucherID)

	var got model.Voucher
	require.NoError(t, db.First(&got, voucher.ID).Error)
	assert.Equal(t, 1, got.UsedCount)
}

func TestEnrollRejectsExpiredVoucher(t *testing.T) {
	svc, db, course := newEnrollmentFixture(t)

	past := time.Now().Add(-time.Hour)
	voucher := &model.Voucher{Code: "OLD", DiscountPct: 50, ValidFrom: past.Add(-time.Hour), ValidUntil: &past, Enabled: true}
	require.NoError(t, db.Create(voucher).Error)

	_, err := svc.Enroll(7, course.ID, "OLD")
	assert.ErrorIs(t, err, util.ErrVoucherExpired)
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	svc, _, course := newEnrollmentFixture(t)

	_, err := svc.Enroll(7, course.ID, "")
	require.NoError(t, err)

	_, err = svc.Enroll(7, course.ID, "")
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollRejectsUnapprovedCourse(t *testing.T) {
	svc, db, _ := newEnrollmentFixture(t)

	draft := &model.Course{Title: "草稿课", Price: 50, Status: model.CourseDraft, InstructorID: 1}
	require.NoError(t, db.Create(draft).Error)

	_, err := svc.Enroll(7, draft.ID, "")
	assert.ErrorIs(t, err, util.ErrCourseNotApproved)
}

func TestRefundRequestAndReview(t *testing.T) {
	svc, db, course := newEnrollmentFixture(t)

	enrollment, err := svc.Enroll(7, course.ID, "")
	require.NoError(t, err)

	refund, err := svc.RequestRefund(7, enrollment.ID, "内容与介绍不符")
	require.NoError(t, err)
	assert.Equal(t, model.RefundPending, refund.Status)

	admin := NewAdminService(
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewVoucherRepository(db),
		repository.NewRefundRepository(db),
		repository.NewEnrollmentRepository(db),
	)

	reviewed, err := admin.ReviewRefund(refund.ID, 1, true, "ok")
	require.NoError(t, err)
	assert.Equal(t, model.RefundApproved, reviewed.Status)

	var got model.Enrollment
	require.NoError(t, db.First(&got, enrollment.ID).Error)
	assert.True(t, got.Refunded)

	// 已审核的申请不能重复审核
	_, err = admin.ReviewRefund(refund.ID, 1, false, "again")
	assert.ErrorIs(t, err, util.ErrRefundAlreadyReviewed)
}
