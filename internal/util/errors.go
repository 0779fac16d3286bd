package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound  = errors.New("course not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrLessonNotFound  = errors.New("lesson not found")

	ErrNotVideoFile          = errors.New("file is not a video")
	ErrUploadNotFound        = errors.New("upload session not found")
	ErrUploadAlreadyActive   = errors.New("an upload is already in flight for this lesson")
	ErrUploadCancelled       = errors.New("upload cancelled")
	ErrVideoNotFound         = errors.New("video not found")
	ErrMaterialNotFound      = errors.New("material not found")
	ErrQuizNotFound          = errors.New("quiz not found")
	ErrQuizTooFewAnswers     = errors.New("question needs at least two answers")
	ErrQuizNoCorrectAnswer   = errors.New("question needs at least one correct answer")
	ErrInvalidContentType    = errors.New("invalid lesson content type")
	ErrAlreadyEnrolled       = errors.New("already enrolled in this course")
	ErrVoucherNotFound       = errors.New("voucher not found")
	ErrVoucherExpired        = errors.New("voucher expired")
	ErrRefundNotFound        = errors.New("refund request not found")
	ErrRefundAlreadyReviewed = errors.New("refund request already reviewed")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrCourseNotApproved     = errors.New("course not approved")
)
