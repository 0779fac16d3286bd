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

// StatusRouter 把推送通道里的视频状态事件落到课时上。
// 路由键只有 videoId：找不到对应课时的事件直接丢弃，
// 不做任何兜底猜测（比如按最近一次上传的课时）
type StatusRouter struct {
	LessonRepo *repository.LessonRepository
}

func NewStatusRouter(lessonRepo *repository.LessonRepository) *StatusRouter {
	return &StatusRouter{LessonRepo: lessonRepo}
}

func (s *StatusRouter) Route(event model.VideoStatusEvent) {
	videoID := util.NormalizeID(event.VideoID)
	if videoID == "" {
		logger.Log.Warn("status event without videoId dropped", zap.String("status", event.Status))
		return
	}

	lesson, err := s.LessonRepo.FindByVideoID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 课时可能已删除或已切换内容类型，事件作废
			logger.Log.Debug("status event for unknown videoId", zap.String("videoId", videoID), zap.String("status", event.Status))
		} else {
			logger.Log.Error("lookup lesson by videoId", zap.Error(err), zap.String("videoId", videoID))
		}
		return
	}

	updates := map[string]interface{}{}
	switch event.Status {
	case model.EventProcessing:
		updates["video_status"] = model.VideoStatusProcessing

	case model.EventReady:
		// ready 事件是可播放的唯一依据，同时带回资产元数据
		updates["video_status"] = model.VideoStatusReady
		updates["video_error"] = ""
		if event.AssetID != "" {
			updates["asset_id"] = event.AssetID
		}
		if event.PlaybackID != "" {
			updates["playback_id"] = event.PlaybackID
		}
		if event.ContentURL != "" {
			updates["content_url"] = event.ContentURL
		}
		if event.Duration > 0 {
			updates["duration"] = event.Duration
		}

	case model.EventError:
		updates["video_status"] = model.VideoStatusError
		updates["video_error"] = event.Error

	case model.EventCancelled:
		// 取消后课时回到无视频状态
		updates = model.ClearVideoFields()

	default:
		logger.Log.Debug("ignoring status event", zap.String("status", event.Status), zap.String("videoId", videoID))
		return
	}

	if err := s.LessonRepo.UpdateFields(lesson.ID, updates); err != nil {
		logger.Log.Error("apply status event", zap.Error(err),
			zap.String("lessonId", lesson.ID), zap.String("videoId", videoID), zap.String("status", event.Status))
		return
	}

	logger.Log.Info("video status applied",
		zap.String("lessonId", lesson.ID), zap.String("videoId", videoID), zap.String("status", event.Status))
}
