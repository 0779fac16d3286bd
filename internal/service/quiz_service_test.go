package service

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizService(t *testing.T) (*QuizService, *repository.LessonRepository, *model.Lesson) {
	t.Helper()
	db := newTestDB(t)
	lessons := repository.NewLessonRepository(db)
	owner := NewOwnershipService(repository.NewCourseRepository(db), repository.NewSectionRepository(db), lessons)
	svc := NewQuizService(repository.NewQuizRepository(db), lessons, owner)
	lesson := seedLesson(t, db, model.ContentQuiz)
	return svc, lessons, lesson
}

func TestQuizCreateRoundTripsCorrectFlags(t *testing.T) {
	svc, lessons, lesson := newQuizService(t)

	questions := []model.QuizQuestion{
		{
			QuestionText: "切片的底层结构包含哪些字段？",
			Answers: []model.QuizAnswer{
				{Text: "指针、长度、容量", IsCorrect: true},
				{Text: "只有指针", IsCorrect: false},
				{Text: "键值对", IsCorrect: false},
			},
		},
		{
			QuestionText: "以下哪些是并发原语？",
			Answers: []model.QuizAnswer{
				{Text: "channel", IsCorrect: true},
				{Text: "sync.Mutex", IsCorrect: true},
				{Text: "fmt.Println", IsCorrect: false},
			},
		},
	}

	quiz, err := svc.Create(lesson.ID, "Go 基础测验", questions, 1, false)
	require.NoError(t, err)

	got, err := svc.Get(quiz.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)

	// isCorrect 标志按原样往返，顺序保持
	first := got.Questions[0]
	require.Len(t, first.Answers, 3)
	assert.True(t, first.Answers[0].IsCorrect)
	assert.False(t, first.Answers[1].IsCorrect)
	assert.False(t, first.Answers[2].IsCorrect)

	second := got.Questions[1]
	assert.True(t, second.Answers[0].IsCorrect)
	assert.True(t, second.Answers[1].IsCorrect)
	assert.False(t, second.Answers[2].IsCorrect)

	// 课时挂上了测验ID
	gotLesson, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, gotLesson.QuizID)
}

func TestQuizCreateRejectsTooFewAnswers(t *testing.T) {
	svc, _, lesson := newQuizService(t)

	_, err := svc.Create(lesson.ID, "bad", []model.QuizQuestion{{
		QuestionText: "单选项？",
		Answers:      []model.QuizAnswer{{Text: "唯一选项", IsCorrect: true}},
	}}, 1, false)
	assert.ErrorIs(t, err, util.ErrQuizTooFewAnswers)
}

func TestQuizCreateRejectsNoCorrectAnswer(t *testing.T) {
	svc, _, lesson := newQuizService(t)

	_, err := svc.Create(lesson.ID, "bad", []model.QuizQuestion{{
		QuestionText: "没有正确答案？",
		Answers: []model.QuizAnswer{
			{Text: "A", IsCorrect: false},
			{Text: "B", IsCorrect: false},
		},
	}}, 1, false)
	assert.ErrorIs(t, err, util.ErrQuizNoCorrectAnswer)
}

func TestQuizUpdateReplacesQuestions(t *testing.T) {
	svc, _, lesson := newQuizService(t)

	quiz, err := svc.Create(lesson.ID, "测验", []model.QuizQuestion{{
		QuestionText: "旧题目",
		Answers: []model.QuizAnswer{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: false},
		},
	}}, 1, false)
	require.NoError(t, err)

	updated, err := svc.UpdateQuestions(quiz.ID, []model.QuizQuestion{
		{
			QuestionText: "新题目一",
			Answers: []model.QuizAnswer{
				{Text: "对", IsCorrect: true},
				{Text: "错", IsCorrect: false},
			},
		},
		{
			QuestionText: "新题目二",
			Answers: []model.QuizAnswer{
				{Text: "甲", IsCorrect: false},
				{Text: "乙", IsCorrect: true},
			},
		},
	}, 1, false)
	require.NoError(t, err)
	require.Len(t, updated.Questions, 2)
	assert.Equal(t, "新题目一", updated.Questions[0].QuestionText)
	assert.Equal(t, "新题目二", updated.Questions[1].QuestionText)
}

func TestQuizDeleteClearsLessonReference(t *testing.T) {
	svc, lessons, lesson := newQuizService(t)

	quiz, err := svc.Create(lesson.ID, "测验", []model.QuizQuestion{{
		QuestionText: "题目",
		Answers: []model.QuizAnswer{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: false},
		},
	}}, 1, false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(quiz.ID, 1, false))

	_, err = svc.Get(quiz.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	gotLesson, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, gotLesson.QuizID)
}
