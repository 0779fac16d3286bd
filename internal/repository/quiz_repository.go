package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateWithQuestions 在同一事务里写入测验、题目和选项
func (r *QuizRepository) CreateWithQuestions(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

// FindByID 查询测验并按顺序预加载题目和选项
func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_answers.position")
		}).
		First(&quiz, "id = ?", id).Error
	return &quiz, err
}

// ReplaceQuestions 整体替换测验题目（编辑保存的语义）
func (r *QuizRepository) ReplaceQuestions(quizID string, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var oldQuestions []model.QuizQuestion
		if err := tx.Where("quiz_id = ?", quizID).Find(&oldQuestions).Error; err != nil {
			return err
		}
		for _, q := range oldQuestions {
			if err := tx.Where("question_id = ?", q.ID).Delete(&model.QuizAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questions []model.QuizQuestion
		if err := tx.Where("quiz_id = ?", id).Find(&questions).Error; err != nil {
			return err
		}
		for _, q := range questions {
			if err := tx.Where("question_id = ?", q.ID).Delete(&model.QuizAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}
