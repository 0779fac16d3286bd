package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService 课程聚合：课程 → 有序章节 → 有序课时
type CourseService struct {
	CourseRepo  *repository.CourseRepository
	SectionRepo *repository.SectionRepository
	Sections    *SectionService
}

func NewCourseService(courseRepo *repository.CourseRepository, sectionRepo *repository.SectionRepository, sections *SectionService) *CourseService {
	return &CourseService{
		CourseRepo:  courseRepo,
		SectionRepo: sectionRepo,
		Sections:    sections,
	}
}

type CourseInput struct {
	Title       string  `json:"title" binding:"required"`
	Subtitle    string  `json:"subtitle"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	CategoryID  uint    `json:"categoryId"`
}

func (s *CourseService) Create(instructorID uint, in CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:        in.Title,
		Subtitle:     in.Subtitle,
		Description:  in.Description,
		Price:        in.Price,
		Thumbnail:    in.Thumbnail,
		CategoryID:   in.CategoryID,
		InstructorID: instructorID,
		Status:       model.CourseDraft,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	logger.Log.Info("course created", zap.String("courseId", course.ID), zap.Uint("instructorId", instructorID))
	return course, nil
}

func (s *CourseService) Get(courseID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithTree(util.NormalizeID(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(courseID string, instructorID uint, in CourseInput) (*model.Course, error) {
	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}

	course.Title = in.Title
	course.Subtitle = in.Subtitle
	course.Description = in.Description
	course.Price = in.Price
	if in.Thumbnail != "" {
		course.Thumbnail = in.Thumbnail
	}
	if in.CategoryID != 0 {
		course.CategoryID = in.CategoryID
	}
	// 已审核课程修改后回到待审状态
	if course.Status == model.CourseApproved {
		course.Status = model.CoursePending
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Submit 讲师提交课程送审
func (s *CourseService) Submit(courseID string, instructorID uint) (*model.Course, error) {
	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}

	course.Status = model.CoursePending
	course.RejectReason = ""
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, courseID string, instructorID uint, isAdmin bool) error {
	course, err := s.Get(courseID)
	if err != nil {
		return err
	}
	if !isAdmin && course.InstructorID != instructorID {
		return util.ErrPermissionDenied
	}

	sections, err := s.SectionRepo.FindByCourse(course.ID)
	if err != nil {
		return err
	}
	for i := range sections {
		if err := s.Sections.remove(ctx, &sections[i]); err != nil {
			return err
		}
	}

	if err := s.CourseRepo.Delete(course.ID); err != nil {
		return err
	}
	logger.Log.Info("course deleted", zap.String("courseId", course.ID))
	return nil
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

// Browse 学员浏览已上架课程
func (s *CourseService) Browse(categoryID uint, page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.ListApproved(categoryID, page, limit)
}
