package service

import (
	"bytes"
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 讲师1拥有 seedLesson 建出的课程，讲师2是外人

func TestForeignInstructorCannotTouchCourseTree(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	_, err := f.sectionSvc.Rename(lesson.SectionID, "改名", 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.lessonSvc.Create(lesson.SectionID, "外人的课时", model.ContentVideo, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.lessonSvc.Rename(lesson.ID, "外人改名", 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = f.lessonSvc.Delete(context.Background(), lesson.ID, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = f.sectionSvc.Delete(context.Background(), lesson.SectionID, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", mib, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.quizSvc.Create(lesson.ID, "外人的测验", []model.QuizQuestion{{
		QuestionText: "题目",
		Answers: []model.QuizAnswer{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: false},
		},
	}}, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.materialSvc.Upload(context.Background(), lesson.ID, "notes.txt", "text/plain", 16,
		bytes.NewReader([]byte("plain text notes")), 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 整棵树毫发无损
	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "第一课", got.Title)
	assert.Empty(t, got.VideoID)
	assert.Empty(t, got.QuizID)
	assert.Empty(t, got.MaterialID)

	section, err := f.sections.FindByID(lesson.SectionID)
	require.NoError(t, err)
	assert.Equal(t, "第一章", section.Title)

	var videoCount int64
	f.db.Model(&model.Video{}).Count(&videoCount)
	assert.Zero(t, videoCount)
	assert.Zero(t, f.provider.uploadCount())
}

func TestAdminBypassesOwnership(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	section, err := f.sectionSvc.Rename(lesson.SectionID, "管理员改名", 99, true)
	require.NoError(t, err)
	assert.Equal(t, "管理员改名", section.Title)

	require.NoError(t, f.lessonSvc.Delete(context.Background(), lesson.ID, 99, true))
}

func TestUploadSessionOwnerEnforced(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 3*mib, 1, false)
	require.NoError(t, err)

	_, err = f.upload.PutChunk(context.Background(), target.UploadID, 0, bytes.NewReader(make([]byte, mib)), 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.upload.GetProgress(context.Background(), target.UploadID, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = f.upload.Cancel(context.Background(), target.UploadID, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 会话还活着，属主继续传不受影响
	progress, err := f.upload.PutChunk(context.Background(), target.UploadID, 0, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 33, progress)
}

func TestForeignInstructorCannotDeleteVideo(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	video := &model.Video{
		UUIDBase:   model.UUIDBase{ID: "vid-1"},
		LessonID:   lesson.ID,
		ContentURL: "/fake/videos/vid-1.mp4",
		Status:     model.VideoStatusReady,
	}
	require.NoError(t, f.videos.Create(video))

	err := f.upload.DeleteVideo(context.Background(), "vid-1", 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.Zero(t, f.provider.deleteCount())

	_, err = f.videos.FindByID("vid-1")
	assert.NoError(t, err)
}
