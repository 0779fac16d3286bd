package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type lessonFixture struct {
	*uploadFixture
	materials   *repository.MaterialRepository
	quizzes     *repository.QuizRepository
	sections    *repository.SectionRepository
	lessonSvc   *LessonService
	materialSvc *MaterialService
	quizSvc     *QuizService
	sectionSvc  *SectionService
}

func newLessonFixture(t *testing.T) *lessonFixture {
	t.Helper()
	uf := newUploadFixture(t)
	materials := repository.NewMaterialRepository(uf.db)
	quizzes := repository.NewQuizRepository(uf.db)
	sections := repository.NewSectionRepository(uf.db)
	storage := &StorageService{Provider: uf.provider}
	cleanup := NewCleanupService(newTestRedis(), storage)

	owner := NewOwnershipService(repository.NewCourseRepository(uf.db), sections, uf.lessons)
	materialSvc := NewMaterialService(materials, uf.lessons, owner, storage, cleanup)
	quizSvc := NewQuizService(quizzes, uf.lessons, owner)
	lessonSvc := NewLessonService(uf.lessons, sections, owner, uf.upload, materialSvc, quizSvc)
	sectionSvc := NewSectionService(sections, uf.lessons, repository.NewCourseRepository(uf.db), owner, lessonSvc)

	return &lessonFixture{
		uploadFixture: uf,
		materials:     materials,
		quizzes:       quizzes,
		sections:      sections,
		lessonSvc:     lessonSvc,
		materialSvc:   materialSvc,
		quizSvc:       quizSvc,
		sectionSvc:    sectionSvc,
	}
}

func TestSwitchContentTypeDeletesOldVideo(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	video := &model.Video{
		UUIDBase:   model.UUIDBase{ID: "vid-1"},
		LessonID:   lesson.ID,
		ContentURL: "/fake/videos/vid-1.mp4",
		Status:     model.VideoStatusReady,
	}
	require.NoError(t, f.videos.Create(video))
	require.NoError(t, f.lessons.UpdateFields(lesson.ID, map[string]interface{}{
		"video_id":     "vid-1",
		"asset_id":     "asset-1",
		"content_url":  "/fake/videos/vid-1.mp4",
		"video_status": model.VideoStatusReady,
	}))

	got, err := f.lessonSvc.SwitchContentType(context.Background(), lesson.ID, model.ContentQuiz, 1, false)
	require.NoError(t, err)
	assert.Equal(t, model.ContentQuiz, got.ContentType)
	assert.Empty(t, got.VideoID)
	assert.Empty(t, got.ContentURL)
	assert.Equal(t, model.VideoStatusNone, got.VideoStatus)

	// 旧视频资产被删除
	_, err = f.videos.FindByID("vid-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 1, f.provider.deleteCount())
}

func TestSwitchContentTypeCancelsInFlightUpload(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 3*mib, 1, false)
	require.NoError(t, err)

	got, err := f.lessonSvc.SwitchContentType(context.Background(), lesson.ID, model.ContentMaterial, 1, false)
	require.NoError(t, err)
	assert.Equal(t, model.ContentMaterial, got.ContentType)
	assert.Empty(t, got.VideoID)

	// 在途上传被取消，会话作废
	assert.Len(t, f.pub.byStatus(model.EventCancelled), 1)
	_, err = f.videos.FindByID(target.VideoID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSwitchContentTypeSameTypeNoop(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	got, err := f.lessonSvc.SwitchContentType(context.Background(), lesson.ID, model.ContentVideo, 1, false)
	require.NoError(t, err)
	assert.Equal(t, model.ContentVideo, got.ContentType)
	assert.Zero(t, f.provider.deleteCount())
}

func TestSwitchContentTypeDeletesMaterial(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentMaterial)

	material := &model.Material{
		UUIDBase:   model.UUIDBase{ID: "mat-1"},
		LessonID:   lesson.ID,
		FileName:   "slides.pdf",
		StorageKey: "materials/mat-1.pdf",
		FileURL:    "/fake/materials/mat-1.pdf",
	}
	require.NoError(t, f.materials.Create(material))
	require.NoError(t, f.lessons.UpdateFields(lesson.ID, map[string]interface{}{
		"material_id": "mat-1",
		"file_name":   "slides.pdf",
		"file_url":    "/fake/materials/mat-1.pdf",
	}))

	got, err := f.lessonSvc.SwitchContentType(context.Background(), lesson.ID, model.ContentVideo, 1, false)
	require.NoError(t, err)
	assert.Equal(t, model.ContentVideo, got.ContentType)
	assert.Empty(t, got.MaterialID)
	assert.Empty(t, got.FileName)

	_, err = f.materials.FindByID("mat-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 1, f.provider.deleteCount())
}

func TestSwitchContentTypeInvalidType(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	_, err := f.lessonSvc.SwitchContentType(context.Background(), lesson.ID, "podcast", 1, false)
	assert.ErrorIs(t, err, util.ErrInvalidContentType)
}

func TestLessonCreateAppendsAtEnd(t *testing.T) {
	f := newLessonFixture(t)
	first := seedLesson(t, f.db, model.ContentVideo)

	second, err := f.lessonSvc.Create(first.SectionID, "第二课", model.ContentQuiz, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, model.ContentQuiz, second.ContentType)
}

func TestLessonDeleteTearsDownQuiz(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentQuiz)

	quiz := &model.Quiz{
		UUIDBase: model.UUIDBase{ID: "quiz-1"},
		LessonID: lesson.ID,
		Questions: []model.QuizQuestion{{
			QuestionText: "Go 的零值是什么？",
			Answers: []model.QuizAnswer{
				{Text: "类型的默认值", IsCorrect: true},
				{Text: "nil", IsCorrect: false},
			},
		}},
	}
	require.NoError(t, f.quizzes.CreateWithQuestions(quiz))
	require.NoError(t, f.lessons.UpdateFields(lesson.ID, map[string]interface{}{"quiz_id": "quiz-1"}))

	require.NoError(t, f.lessonSvc.Delete(context.Background(), lesson.ID, 1, false))

	_, err := f.lessons.FindByID(lesson.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = f.quizzes.FindByID("quiz-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
