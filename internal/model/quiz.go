package model

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	LessonID  string         `gorm:"index;type:varchar(36)" json:"lessonId"`
	Title     string         `gorm:"size:255" json:"title"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验题目：至少两个选项，至少一个正确答案
// swagger:model QuizQuestion
type QuizQuestion struct {
	UUIDBase
	QuizID       string       `gorm:"index;type:varchar(36)" json:"quizId"`
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	Explanation  string       `gorm:"type:text" json:"explanation,omitempty"`
	Position     int          `gorm:"default:0" json:"position"`
	Answers      []QuizAnswer `gorm:"foreignKey:QuestionID;references:ID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizAnswer
type QuizAnswer struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36)" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
