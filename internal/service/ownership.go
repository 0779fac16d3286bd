package service

import (
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// OwnershipService 校验讲师对课程树子资源的所有权。
// 章节/课时/视频等子资源不记讲师，归属沿 课时→章节→课程 回溯到课程的 InstructorID
type OwnershipService struct {
	CourseRepo  *repository.CourseRepository
	SectionRepo *repository.SectionRepository
	LessonRepo  *repository.LessonRepository
}

func NewOwnershipService(
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	lessonRepo *repository.LessonRepository,
) *OwnershipService {
	return &OwnershipService{
		CourseRepo:  courseRepo,
		SectionRepo: sectionRepo,
		LessonRepo:  lessonRepo,
	}
}

func (s *OwnershipService) AuthorizeCourse(courseID string, instructorID uint, isAdmin bool) error {
	course, err := s.CourseRepo.FindByID(util.NormalizeID(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if !isAdmin && course.InstructorID != instructorID {
		return util.ErrPermissionDenied
	}
	return nil
}

func (s *OwnershipService) AuthorizeSection(sectionID string, instructorID uint, isAdmin bool) error {
	section, err := s.SectionRepo.FindByID(util.NormalizeID(sectionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}
	return s.AuthorizeCourse(section.CourseID, instructorID, isAdmin)
}

func (s *OwnershipService) AuthorizeLesson(lessonID string, instructorID uint, isAdmin bool) error {
	lesson, err := s.LessonRepo.FindByID(util.NormalizeID(lessonID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.AuthorizeSection(lesson.SectionID, instructorID, isAdmin)
}
