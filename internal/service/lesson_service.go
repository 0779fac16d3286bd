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

// LessonService 课时管理。内容类型切换是破坏性操作：
// 旧类型的负载（视频/附件/测验）会被回收后再切换
type LessonService struct {
	LessonRepo  *repository.LessonRepository
	SectionRepo *repository.SectionRepository
	Owner       *OwnershipService
	Uploads     *UploadService
	Materials   *MaterialService
	Quizzes     *QuizService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	sectionRepo *repository.SectionRepository,
	owner *OwnershipService,
	uploads *UploadService,
	materials *MaterialService,
	quizzes *QuizService,
) *LessonService {
	return &LessonService{
		LessonRepo:  lessonRepo,
		SectionRepo: sectionRepo,
		Owner:       owner,
		Uploads:     uploads,
		Materials:   materials,
		Quizzes:     quizzes,
	}
}

func (s *LessonService) Create(sectionID, title string, contentType model.LessonContentType, instructorID uint, isAdmin bool) (*model.Lesson, error) {
	switch contentType {
	case model.ContentVideo, model.ContentMaterial, model.ContentQuiz:
	default:
		return nil, util.ErrInvalidContentType
	}

	sectionID = util.NormalizeID(sectionID)
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}
	if err := s.Owner.AuthorizeCourse(section.CourseID, instructorID, isAdmin); err != nil {
		return nil, err
	}

	siblings, err := s.LessonRepo.FindBySection(sectionID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		SectionID:   sectionID,
		Title:       title,
		Position:    len(siblings),
		ContentType: contentType,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Get(lessonID string) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(util.NormalizeID(lessonID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Rename(lessonID, title string, instructorID uint, isAdmin bool) (*model.Lesson, error) {
	lesson, err := s.Get(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Owner.AuthorizeSection(lesson.SectionID, instructorID, isAdmin); err != nil {
		return nil, err
	}
	lesson.Title = title
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Reorder(sectionID string, orderedIDs []string, instructorID uint, isAdmin bool) error {
	sectionID = util.NormalizeID(sectionID)
	if err := s.Owner.AuthorizeSection(sectionID, instructorID, isAdmin); err != nil {
		return err
	}
	return s.LessonRepo.Reorder(sectionID, orderedIDs)
}

// SwitchContentType 切换课时内容类型。
// 先回收旧类型的全部负载（包括取消在途上传），再落新类型。
// 回收是尽力而为的：单步失败记日志但不阻断切换
func (s *LessonService) SwitchContentType(ctx context.Context, lessonID string, newType model.LessonContentType, instructorID uint, isAdmin bool) (*model.Lesson, error) {
	switch newType {
	case model.ContentVideo, model.ContentMaterial, model.ContentQuiz:
	default:
		return nil, util.ErrInvalidContentType
	}

	lesson, err := s.Get(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Owner.AuthorizeSection(lesson.SectionID, instructorID, isAdmin); err != nil {
		return nil, err
	}
	if lesson.ContentType == newType {
		return lesson, nil
	}

	s.teardownContent(ctx, lesson)

	updates := map[string]interface{}{"content_type": newType}
	if err := s.LessonRepo.UpdateFields(lesson.ID, updates); err != nil {
		return nil, err
	}

	logger.Log.Info("lesson content type switched",
		zap.String("lessonId", lesson.ID),
		zap.String("from", string(lesson.ContentType)), zap.String("to", string(newType)))
	return s.LessonRepo.FindByID(lesson.ID)
}

func (s *LessonService) Delete(ctx context.Context, lessonID string, instructorID uint, isAdmin bool) error {
	lesson, err := s.Get(lessonID)
	if err != nil {
		return err
	}
	if err := s.Owner.AuthorizeSection(lesson.SectionID, instructorID, isAdmin); err != nil {
		return err
	}
	return s.removeLesson(ctx, lesson)
}

// removeLesson 实际删除，调用方已完成鉴权（章节级联删除时走这里）
func (s *LessonService) removeLesson(ctx context.Context, lesson *model.Lesson) error {
	s.teardownContent(ctx, lesson)

	if err := s.LessonRepo.Delete(lesson.ID); err != nil {
		return err
	}
	logger.Log.Info("lesson deleted", zap.String("lessonId", lesson.ID))
	return nil
}

// teardownContent 回收课时当前内容类型的负载
func (s *LessonService) teardownContent(ctx context.Context, lesson *model.Lesson) {
	switch lesson.ContentType {
	case model.ContentVideo:
		// 在途上传先取消，取消路径自己会清掉视频负载
		s.Uploads.CancelByLesson(lesson.ID)
		if lesson.VideoID != "" {
			if err := s.Uploads.removeVideoByID(ctx, lesson.VideoID); err != nil && !errors.Is(err, util.ErrVideoNotFound) {
				logger.Log.Warn("delete video on content switch failed",
					zap.Error(err), zap.String("lessonId", lesson.ID), zap.String("videoId", lesson.VideoID))
			}
		}
		s.LessonRepo.UpdateFields(lesson.ID, model.ClearVideoFields())

	case model.ContentMaterial:
		if lesson.MaterialID != "" {
			if err := s.Materials.removeByID(ctx, lesson.MaterialID); err != nil && !errors.Is(err, util.ErrMaterialNotFound) {
				logger.Log.Warn("delete material on content switch failed",
					zap.Error(err), zap.String("lessonId", lesson.ID), zap.String("materialId", lesson.MaterialID))
			}
		}
		s.LessonRepo.UpdateFields(lesson.ID, model.ClearMaterialFields())

	case model.ContentQuiz:
		if lesson.QuizID != "" {
			if err := s.Quizzes.removeByID(lesson.QuizID); err != nil && !errors.Is(err, util.ErrQuizNotFound) {
				logger.Log.Warn("delete quiz on content switch failed",
					zap.Error(err), zap.String("lessonId", lesson.ID), zap.String("quizId", lesson.QuizID))
			}
		}
		s.LessonRepo.UpdateFields(lesson.ID, model.ClearQuizFields())
	}
}
