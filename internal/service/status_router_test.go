package service

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRouterReadyMergesByVideoID(t *testing.T) {
	db := newTestDB(t)
	lessons := repository.NewLessonRepository(db)
	router := NewStatusRouter(lessons)

	lesson := seedLesson(t, db, model.ContentVideo)
	require.NoError(t, lessons.UpdateFields(lesson.ID, map[string]interface{}{
		"video_id":     "vid-1",
		"video_status": model.VideoStatusProcessing,
	}))

	router.Route(model.VideoStatusEvent{
		VideoID:    "vid-1",
		Status:     model.EventReady,
		AssetID:    "asset-1",
		PlaybackID: "pb-1",
		ContentURL: "/videos/vid-1.mp4",
		Duration:   42.5,
	})

	got, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusReady, got.VideoStatus)
	assert.Equal(t, "asset-1", got.AssetID)
	assert.Equal(t, "pb-1", got.PlaybackID)
	assert.Equal(t, "/videos/vid-1.mp4", got.ContentURL)
	assert.Equal(t, 42.5, got.Duration)
	assert.Empty(t, got.VideoError)
}

func TestStatusRouterUnknownVideoIDMutatesNothing(t *testing.T) {
	db := newTestDB(t)
	lessons := repository.NewLessonRepository(db)
	router := NewStatusRouter(lessons)

	lesson := seedLesson(t, db, model.ContentVideo)
	require.NoError(t, lessons.UpdateFields(lesson.ID, map[string]interface{}{
		"video_id":     "vid-1",
		"video_status": model.VideoStatusUploading,
	}))

	// 不存在的 videoId：事件直接作废
	router.Route(model.VideoStatusEvent{VideoID: "vid-unknown", Status: model.EventReady})

	got, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusUploading, got.VideoStatus)
	assert.Equal(t, "vid-1", got.VideoID)
}

func TestStatusRouterErrorSetsMessage(t *testing.T) {
	db := newTestDB(t)
	lessons := repository.NewLessonRepository(db)
	router := NewStatusRouter(lessons)

	lesson := seedLesson(t, db, model.ContentVideo)
	require.NoError(t, lessons.UpdateFields(lesson.ID, map[string]interface{}{"video_id": "vid-1"}))

	router.Route(model.VideoStatusEvent{VideoID: "vid-1", Status: model.EventError, Error: "transcode failed"})

	got, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusError, got.VideoStatus)
	assert.Equal(t, "transcode failed", got.VideoError)
}

func TestStatusRouterCancelledClearsVideoPayload(t *testing.T) {
	db := newTestDB(t)
	lessons := repository.NewLessonRepository(db)
	router := NewStatusRouter(lessons)

	lesson := seedLesson(t, db, model.ContentVideo)
	require.NoError(t, lessons.UpdateFields(lesson.ID, map[string]interface{}{
		"video_id":     "vid-1",
		"asset_id":     "asset-1",
		"video_status": model.VideoStatusUploading,
	}))

	router.Route(model.VideoStatusEvent{VideoID: "vid-1", Status: model.EventCancelled})

	got, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.VideoID)
	assert.Empty(t, got.AssetID)
	assert.Equal(t, model.VideoStatusNone, got.VideoStatus)
}

func TestStatusRouterIgnoresUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	lessons := repository.NewLessonRepository(db)
	router := NewStatusRouter(lessons)

	lesson := seedLesson(t, db, model.ContentVideo)
	require.NoError(t, lessons.UpdateFields(lesson.ID, map[string]interface{}{
		"video_id":     "vid-1",
		"video_status": model.VideoStatusProcessing,
	}))

	router.Route(model.VideoStatusEvent{VideoID: "vid-1", Status: "archived"})

	got, err := lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusProcessing, got.VideoStatus)
}
