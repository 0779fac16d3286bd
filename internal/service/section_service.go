package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// SectionService 章节管理，删除章节会级联回收其下课时的内容
type SectionService struct {
	SectionRepo *repository.SectionRepository
	LessonRepo  *repository.LessonRepository
	CourseRepo  *repository.CourseRepository
	Owner       *OwnershipService
	Lessons     *LessonService
}

func NewSectionService(
	sectionRepo *repository.SectionRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	owner *OwnershipService,
	lessons *LessonService,
) *SectionService {
	return &SectionService{
		SectionRepo: sectionRepo,
		LessonRepo:  lessonRepo,
		CourseRepo:  courseRepo,
		Owner:       owner,
		Lessons:     lessons,
	}
}

func (s *SectionService) Create(courseID, title string, instructorID uint, isAdmin bool) (*model.Section, error) {
	courseID = util.NormalizeID(courseID)
	if err := s.Owner.AuthorizeCourse(courseID, instructorID, isAdmin); err != nil {
		return nil, err
	}

	siblings, err := s.SectionRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	section := &model.Section{
		CourseID: courseID,
		Title:    title,
		Position: len(siblings),
	}
	if err := s.SectionRepo.Create(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) Get(sectionID string) (*model.Section, error) {
	section, err := s.SectionRepo.FindByID(util.NormalizeID(sectionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}
	return section, nil
}

func (s *SectionService) Rename(sectionID, title string, instructorID uint, isAdmin bool) (*model.Section, error) {
	section, err := s.Get(sectionID)
	if err != nil {
		return nil, err
	}
	if err := s.Owner.AuthorizeCourse(section.CourseID, instructorID, isAdmin); err != nil {
		return nil, err
	}
	section.Title = title
	if err := s.SectionRepo.Update(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) Reorder(courseID string, orderedIDs []string, instructorID uint, isAdmin bool) error {
	courseID = util.NormalizeID(courseID)
	if err := s.Owner.AuthorizeCourse(courseID, instructorID, isAdmin); err != nil {
		return err
	}
	return s.SectionRepo.Reorder(courseID, orderedIDs)
}

// Delete 删除章节及其下全部课时
func (s *SectionService) Delete(ctx context.Context, sectionID string, instructorID uint, isAdmin bool) error {
	section, err := s.Get(sectionID)
	if err != nil {
		return err
	}
	if err := s.Owner.AuthorizeCourse(section.CourseID, instructorID, isAdmin); err != nil {
		return err
	}
	return s.remove(ctx, section)
}

// remove 实际删除，调用方已完成鉴权（课程级联删除时走这里）
func (s *SectionService) remove(ctx context.Context, section *model.Section) error {
	lessons, err := s.LessonRepo.FindBySection(section.ID)
	if err != nil {
		return err
	}
	for i := range lessons {
		if err := s.Lessons.removeLesson(ctx, &lessons[i]); err != nil {
			return err
		}
	}

	return s.SectionRepo.Delete(section.ID)
}
