package service

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService 课时测验的增删改查与校验
type QuizService struct {
	QuizRepo   *repository.QuizRepository
	LessonRepo *repository.LessonRepository
	Owner      *OwnershipService
}

func NewQuizService(quizRepo *repository.QuizRepository, lessonRepo *repository.LessonRepository, owner *OwnershipService) *QuizService {
	return &QuizService{QuizRepo: quizRepo, LessonRepo: lessonRepo, Owner: owner}
}

// validateQuestions 每道题至少两个选项、至少一个正确答案
func validateQuestions(questions []model.QuizQuestion) error {
	for _, q := range questions {
		if len(q.Answers) < 2 {
			return util.ErrQuizTooFewAnswers
		}
		hasCorrect := false
		for _, a := range q.Answers {
			if a.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return util.ErrQuizNoCorrectAnswer
		}
	}
	return nil
}

func (s *QuizService) Create(lessonID, title string, questions []model.QuizQuestion, instructorID uint, isAdmin bool) (*model.Quiz, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	lessonID = util.NormalizeID(lessonID)
	if err := s.Owner.AuthorizeLesson(lessonID, instructorID, isAdmin); err != nil {
		return nil, err
	}

	for i := range questions {
		questions[i].Position = i
		for j := range questions[i].Answers {
			questions[i].Answers[j].Position = j
		}
	}

	quiz := &model.Quiz{
		LessonID:  lessonID,
		Title:     title,
		Questions: questions,
	}
	if err := s.QuizRepo.CreateWithQuestions(quiz); err != nil {
		return nil, err
	}

	if err := s.LessonRepo.UpdateFields(lessonID, map[string]interface{}{"quiz_id": quiz.ID}); err != nil {
		return nil, err
	}

	logger.Log.Info("quiz created", zap.String("quizId", quiz.ID), zap.String("lessonId", lessonID))
	return quiz, nil
}

func (s *QuizService) Get(quizID string) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(util.NormalizeID(quizID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// UpdateQuestions 整体替换题目，保存即覆盖
func (s *QuizService) UpdateQuestions(quizID string, questions []model.QuizQuestion, instructorID uint, isAdmin bool) (*model.Quiz, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	quizID = util.NormalizeID(quizID)
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(quiz, instructorID, isAdmin); err != nil {
		return nil, err
	}

	for i := range questions {
		questions[i].Position = i
		for j := range questions[i].Answers {
			questions[i].Answers[j].Position = j
		}
	}

	if err := s.QuizRepo.ReplaceQuestions(quizID, questions); err != nil {
		return nil, err
	}
	return s.QuizRepo.FindByID(quizID)
}

func (s *QuizService) Delete(quizID string, instructorID uint, isAdmin bool) error {
	quiz, err := s.Get(quizID)
	if err != nil {
		return err
	}
	if err := s.authorize(quiz, instructorID, isAdmin); err != nil {
		return err
	}
	return s.remove(quiz)
}

// authorize 游离测验（课时已删）只有管理员能动
func (s *QuizService) authorize(quiz *model.Quiz, instructorID uint, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if quiz.LessonID == "" {
		return util.ErrPermissionDenied
	}
	return s.Owner.AuthorizeLesson(quiz.LessonID, instructorID, false)
}

// removeByID 内容类型切换和课时删除的回收路径走这里，调用方已完成鉴权
func (s *QuizService) removeByID(quizID string) error {
	quiz, err := s.Get(quizID)
	if err != nil {
		return err
	}
	return s.remove(quiz)
}

func (s *QuizService) remove(quiz *model.Quiz) error {
	if err := s.QuizRepo.Delete(quiz.ID); err != nil {
		return err
	}

	if quiz.LessonID != "" {
		s.LessonRepo.UpdateFields(quiz.LessonID, model.ClearQuizFields())
	}

	logger.Log.Info("quiz deleted", zap.String("quizId", quiz.ID))
	return nil
}
