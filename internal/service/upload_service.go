package service

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"course_market_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusPublisher 向推送通道下发视频状态事件
type StatusPublisher interface {
	Publish(event model.VideoStatusEvent)
}

const uploadSessionKeyPrefix = "upload:session:"

// uploadSession 进程内的活跃上传会话，分块落在本地临时目录，
// ctx 用于在取消时打断装配/转存
type uploadSession struct {
	model.UploadSession
	dir    string
	ctx    context.Context
	cancel context.CancelFunc
	object string // 已转存到远端的对象名，取消时要删
}

// UploadService 视频上传编排：签发上传目标、接收分块、
// 装配转存、取消回收。每个课时同一时刻只允许一个在途上传
type UploadService struct {
	cfg        *config.Config
	VideoRepo  *repository.VideoRepository
	LessonRepo *repository.LessonRepository
	Owner      *OwnershipService
	Storage    *StorageService
	Publisher  StatusPublisher
	Cancels    *CancelRegistry
	Cleanup    *CleanupService
	Redis      *redis.Client

	mu       sync.Mutex
	sessions map[string]*uploadSession // uploadID -> session
	byLesson map[string]string         // lessonID -> uploadID
	tmpDir   string
}

func NewUploadService(
	cfg *config.Config,
	videoRepo *repository.VideoRepository,
	lessonRepo *repository.LessonRepository,
	owner *OwnershipService,
	storage *StorageService,
	publisher StatusPublisher,
	cancels *CancelRegistry,
	cleanup *CleanupService,
	rdb *redis.Client,
) *UploadService {
	tmpDir := filepath.Join(os.TempDir(), "course_market_uploads")
	os.MkdirAll(tmpDir, 0755)

	return &UploadService{
		cfg:        cfg,
		VideoRepo:  videoRepo,
		LessonRepo: lessonRepo,
		Owner:      owner,
		Storage:    storage,
		Publisher:  publisher,
		Cancels:    cancels,
		Cleanup:    cleanup,
		Redis:      rdb,
		sessions:   make(map[string]*uploadSession),
		byLesson:   make(map[string]string),
		tmpDir:     tmpDir,
	}
}

func (s *UploadService) chunkSize() int64 {
	if s.cfg.Upload.ChunkSizeMB <= 0 {
		return util.ChunkSize
	}
	return int64(s.cfg.Upload.ChunkSizeMB) * 1024 * 1024
}

func isAllowedVideoExt(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range util.AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// CreateUpload 校验并签发上传目标。
// MIME 校验最先执行：非视频文件在产生任何存储/网络副作用之前就被拒绝
func (s *UploadService) CreateUpload(ctx context.Context, lessonID, filename, mimeType string, fileSize int64, instructorID uint, isAdmin bool) (*model.UploadTarget, error) {
	if !util.IsVideoMime(mimeType) {
		return nil, util.ErrNotVideoFile
	}
	if !isAllowedVideoExt(filename) {
		return nil, util.ErrNotVideoFile
	}
	if fileSize <= 0 {
		return nil, fmt.Errorf("invalid file size: %d", fileSize)
	}

	lessonID = util.NormalizeID(lessonID)
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if err := s.Owner.AuthorizeSection(lesson.SectionID, instructorID, isAdmin); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, active := s.byLesson[lessonID]; active {
		s.mu.Unlock()
		return nil, util.ErrUploadAlreadyActive
	}

	uploadID := model.GenerateUUID()
	videoID := model.GenerateUUID()
	assetID := model.GenerateUUID()

	totalChunks := int((fileSize + s.chunkSize() - 1) / s.chunkSize())
	sessCtx, sessCancel := context.WithCancel(context.Background())
	sess := &uploadSession{
		UploadSession: model.UploadSession{
			UploadID:     uploadID,
			VideoID:      videoID,
			AssetID:      assetID,
			LessonID:     lessonID,
			InstructorID: instructorID,
			Filename:     filename,
			MimeType:     mimeType,
			TotalChunks:  totalChunks,
			FileSize:     fileSize,
			Status:       model.UploadUploading,
			Chunks:       make(map[int]bool),
			CreatedAt:    time.Now(),
		},
		dir:    filepath.Join(s.tmpDir, uploadID),
		ctx:    sessCtx,
		cancel: sessCancel,
	}
	s.sessions[uploadID] = sess
	s.byLesson[lessonID] = uploadID
	monitoring.UploadSessionGauge.Inc()
	s.mu.Unlock()

	if err := os.MkdirAll(sess.dir, 0755); err != nil {
		s.discardSession(sess)
		return nil, err
	}

	video := &model.Video{
		UUIDBase: model.UUIDBase{ID: videoID},
		LessonID: lessonID,
		AssetID:  assetID,
		UploadID: uploadID,
		Title:    filename,
		Size:     fileSize,
		Status:   model.VideoStatusUploading,
	}
	if err := s.VideoRepo.Create(video); err != nil {
		s.discardSession(sess)
		os.RemoveAll(sess.dir)
		return nil, err
	}

	if err := s.LessonRepo.UpdateFields(lesson.ID, map[string]interface{}{
		"video_id":     videoID,
		"video_status": model.VideoStatusUploading,
		"video_error":  "",
	}); err != nil {
		s.discardSession(sess)
		os.RemoveAll(sess.dir)
		s.VideoRepo.Delete(videoID)
		return nil, err
	}

	// 取消句柄按课时注册：重复取消只会触发一次回收
	s.Cancels.Register(lessonID, func() {
		s.teardown(sess)
	})

	s.persistProgress(ctx, sess)
	logger.Log.Info("upload target issued",
		zap.String("uploadId", uploadID), zap.String("videoId", videoID),
		zap.String("lessonId", lessonID), zap.Int("totalChunks", totalChunks))

	return &model.UploadTarget{
		UploadURL: fmt.Sprintf("/api/video/upload/%s/chunk", uploadID),
		UploadID:  uploadID,
		VideoID:   videoID,
		AssetID:   assetID,
	}, nil
}

// PutChunk 接收一个分块。收齐全部分块后会话进入 processing 并异步装配转存；
// processing 不代表可播放，ready 只能由状态事件带来
func (s *UploadService) PutChunk(ctx context.Context, uploadID string, index int, reader io.Reader, instructorID uint, isAdmin bool) (int, error) {
	s.mu.Lock()
	sess, ok := s.sessions[uploadID]
	if !ok || sess.Status != model.UploadUploading {
		s.mu.Unlock()
		if ok {
			return 0, util.ErrUploadCancelled
		}
		return 0, util.ErrUploadNotFound
	}
	if !isAdmin && sess.InstructorID != instructorID {
		s.mu.Unlock()
		return 0, util.ErrPermissionDenied
	}
	if index < 0 || index >= sess.TotalChunks {
		s.mu.Unlock()
		return 0, fmt.Errorf("chunk index %d out of range [0,%d)", index, sess.TotalChunks)
	}
	s.mu.Unlock()

	chunkPath := filepath.Join(sess.dir, fmt.Sprintf("chunk_%06d", index))
	f, err := os.Create(chunkPath)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(chunkPath)
		return 0, err
	}
	f.Close()

	s.mu.Lock()
	if sess.Status != model.UploadUploading {
		// 写盘期间被取消了
		s.mu.Unlock()
		return 0, util.ErrUploadCancelled
	}
	if !sess.Chunks[index] {
		sess.Chunks[index] = true
		sess.UploadedChunks++
	}
	sess.Progress = sess.UploadedChunks * 100 / sess.TotalChunks
	complete := sess.UploadedChunks == sess.TotalChunks
	if complete {
		sess.Status = model.UploadProcessing
	}
	progress := sess.Progress
	s.mu.Unlock()

	s.persistProgress(ctx, sess)

	if complete {
		s.LessonRepo.UpdateFields(sess.LessonID, map[string]interface{}{
			"video_status": model.VideoStatusProcessing,
		})
		s.Publisher.Publish(model.VideoStatusEvent{
			VideoID: sess.VideoID,
			Status:  model.EventProcessing,
			AssetID: sess.AssetID,
		})
		go s.process(sess)
	}

	return progress, nil
}

// process 装配分块、探测元数据、抓取封面并转存到对象存储
func (s *UploadService) process(sess *uploadSession) {
	err := s.doProcess(sess)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		// 取消路径由 teardown 负责收尾
		return
	}

	logger.Log.Error("upload processing failed", zap.Error(err),
		zap.String("uploadId", sess.UploadID), zap.String("videoId", sess.VideoID))

	s.mu.Lock()
	sess.Status = model.UploadError
	s.mu.Unlock()

	s.VideoRepo.UpdateFields(sess.VideoID, map[string]interface{}{
		"status": model.VideoStatusError,
		"error":  err.Error(),
	})
	s.Publisher.Publish(model.VideoStatusEvent{
		VideoID: sess.VideoID,
		Status:  model.EventError,
		Error:   err.Error(),
	})
	monitoring.UploadOutcomeCounter.WithLabelValues("error").Inc()
	s.finishSession(sess)
	os.RemoveAll(sess.dir)
}

func (s *UploadService) doProcess(sess *uploadSession) error {
	assembled := filepath.Join(sess.dir, "assembled"+filepath.Ext(sess.Filename))
	if err := s.assemble(sess, assembled); err != nil {
		return err
	}
	if err := sess.ctx.Err(); err != nil {
		return err
	}

	info, err := util.GetVideoInfo(assembled)
	if err != nil {
		return fmt.Errorf("probe video: %w", err)
	}

	thumbPath := filepath.Join(sess.dir, "thumbnail.jpg")
	thumbURL := ""
	if err := util.GenerateThumbnail(assembled, thumbPath, "00:00:01"); err != nil {
		// 封面失败不阻断发布
		logger.Log.Warn("thumbnail generation failed", zap.Error(err), zap.String("videoId", sess.VideoID))
	} else {
		name := fmt.Sprintf("thumbnails/%s.jpg", sess.VideoID)
		if url, err := s.Storage.UploadFile(sess.ctx, name, thumbPath, "image/jpeg"); err == nil {
			thumbURL = url
		}
	}
	if err := sess.ctx.Err(); err != nil {
		return err
	}

	objectName := fmt.Sprintf("videos/%s%s", sess.VideoID, filepath.Ext(sess.Filename))
	contentURL, err := s.Storage.UploadFile(sess.ctx, objectName, assembled, sess.MimeType)
	if err != nil {
		return fmt.Errorf("store video: %w", err)
	}

	s.mu.Lock()
	cancelled := sess.Status != model.UploadProcessing
	if !cancelled {
		sess.object = objectName
		sess.Status = model.UploadSuccess
	}
	s.mu.Unlock()
	if cancelled {
		// 已取消：刚转存的对象立即回收
		if err := s.Storage.Delete(context.Background(), objectName); err != nil {
			s.Cleanup.Enqueue(objectName)
		}
		return context.Canceled
	}

	playbackID := model.GenerateUUID()
	if err := s.VideoRepo.UpdateFields(sess.VideoID, map[string]interface{}{
		"playback_id": playbackID,
		"content_url": contentURL,
		"thumbnail":   thumbURL,
		"duration":    info.Duration,
		"format":      info.Format,
		"status":      model.VideoStatusReady,
	}); err != nil {
		return err
	}
	if thumbURL != "" {
		s.LessonRepo.UpdateFields(sess.LessonID, map[string]interface{}{"thumbnail": thumbURL})
	}

	s.Publisher.Publish(model.VideoStatusEvent{
		VideoID:    sess.VideoID,
		Status:     model.EventReady,
		AssetID:    sess.AssetID,
		PlaybackID: playbackID,
		ContentURL: contentURL,
		Duration:   info.Duration,
	})

	monitoring.UploadOutcomeCounter.WithLabelValues("ready").Inc()
	logger.Log.Info("video ready",
		zap.String("videoId", sess.VideoID), zap.String("contentUrl", contentURL),
		zap.Float64("duration", info.Duration))

	s.finishSession(sess)
	os.RemoveAll(sess.dir)
	return nil
}

func (s *UploadService) assemble(sess *uploadSession, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	for i := 0; i < sess.TotalChunks; i++ {
		if err := sess.ctx.Err(); err != nil {
			return err
		}
		chunk, err := os.Open(filepath.Join(sess.dir, fmt.Sprintf("chunk_%06d", i)))
		if err != nil {
			return fmt.Errorf("missing chunk %d: %w", i, err)
		}
		_, err = io.Copy(out, chunk)
		chunk.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Cancel 取消一个在途上传。同一会话重复取消是幂等的：
// 第一次触发完整回收，之后的调用直接成功返回
func (s *UploadService) Cancel(ctx context.Context, uploadID string, instructorID uint, isAdmin bool) error {
	s.mu.Lock()
	sess, ok := s.sessions[uploadID]
	s.mu.Unlock()
	if !ok {
		// 会话已结束或已被取消，视为成功
		return nil
	}
	if !isAdmin && sess.InstructorID != instructorID {
		return util.ErrPermissionDenied
	}
	s.Cancels.Invoke(sess.LessonID)
	return nil
}

// CancelByLesson 按课时取消，内容类型切换时走这里
func (s *UploadService) CancelByLesson(lessonID string) {
	s.Cancels.Invoke(util.NormalizeID(lessonID))
}

// teardown 实际的取消回收，只会被取消句柄触发一次。
// 各步骤尽力而为，任何一步失败都不阻断后续步骤
func (s *UploadService) teardown(sess *uploadSession) {
	s.mu.Lock()
	if sess.Status == model.UploadSuccess || sess.Status == model.UploadError {
		s.mu.Unlock()
		return
	}
	sess.Status = model.UploadIdle
	object := sess.object
	s.mu.Unlock()

	// 1. 打断在途的装配/转存
	sess.cancel()

	// 2. 删除已转存的远端对象，删不掉的进死信队列
	if object != "" {
		if err := s.Storage.Delete(context.Background(), object); err != nil {
			s.Cleanup.Enqueue(object)
		}
	}

	// 3. 删除视频资产记录
	if err := s.VideoRepo.Delete(sess.VideoID); err != nil {
		logger.Log.Warn("delete video record on cancel failed", zap.Error(err), zap.String("videoId", sess.VideoID))
	}

	// 4. 通过状态事件把课时重置回无视频状态
	s.Publisher.Publish(model.VideoStatusEvent{
		VideoID: sess.VideoID,
		Status:  model.EventCancelled,
	})

	s.finishSession(sess)
	os.RemoveAll(sess.dir)
	monitoring.UploadOutcomeCounter.WithLabelValues("cancelled").Inc()
	logger.Log.Info("upload cancelled",
		zap.String("uploadId", sess.UploadID), zap.String("lessonId", sess.LessonID))
}

// GetProgress 查询上传进度，进程内会话优先，回落到Redis快照
func (s *UploadService) GetProgress(ctx context.Context, uploadID string, instructorID uint, isAdmin bool) (*model.UploadSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[uploadID]
	if ok {
		snapshot := sess.UploadSession
		snapshot.Chunks = nil
		s.mu.Unlock()
		if !isAdmin && snapshot.InstructorID != instructorID {
			return nil, util.ErrPermissionDenied
		}
		return &snapshot, nil
	}
	s.mu.Unlock()

	raw, err := s.Redis.Get(ctx, uploadSessionKeyPrefix+uploadID).Result()
	if err != nil {
		return nil, util.ErrUploadNotFound
	}
	var snapshot model.UploadSession
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, util.ErrUploadNotFound
	}
	if !isAdmin && snapshot.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}
	return &snapshot, nil
}

// DeleteVideo 删除一个已就绪的视频资产并清空引用它的课时负载
func (s *UploadService) DeleteVideo(ctx context.Context, videoID string, instructorID uint, isAdmin bool) error {
	videoID = util.NormalizeID(videoID)
	video, err := s.VideoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrVideoNotFound
		}
		return err
	}
	if !isAdmin {
		// 游离资产（课时已删）只有管理员能清
		if video.LessonID == "" {
			return util.ErrPermissionDenied
		}
		if err := s.Owner.AuthorizeLesson(video.LessonID, instructorID, false); err != nil {
			return err
		}
	}
	return s.removeVideo(ctx, video)
}

// removeVideoByID 内容类型切换的回收路径走这里，调用方已完成鉴权
func (s *UploadService) removeVideoByID(ctx context.Context, videoID string) error {
	video, err := s.VideoRepo.FindByID(util.NormalizeID(videoID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrVideoNotFound
		}
		return err
	}
	return s.removeVideo(ctx, video)
}

// removeVideo 实际删除，调用方已完成鉴权
func (s *UploadService) removeVideo(ctx context.Context, video *model.Video) error {
	videoID := video.ID

	if video.ContentURL != "" {
		objectName := fmt.Sprintf("videos/%s%s", video.ID, filepath.Ext(video.ContentURL))
		if err := s.Storage.Delete(ctx, objectName); err != nil {
			s.Cleanup.Enqueue(objectName)
		}
	}
	if video.Thumbnail != "" {
		name := fmt.Sprintf("thumbnails/%s.jpg", video.ID)
		if err := s.Storage.Delete(ctx, name); err != nil {
			s.Cleanup.Enqueue(name)
		}
	}

	if err := s.VideoRepo.Delete(video.ID); err != nil {
		return err
	}

	if lesson, err := s.LessonRepo.FindByVideoID(videoID); err == nil {
		s.LessonRepo.UpdateFields(lesson.ID, model.ClearVideoFields())
	}

	logger.Log.Info("video deleted", zap.String("videoId", videoID))
	return nil
}

// finishSession 正常结束会话：摘掉取消句柄但不触发回收
func (s *UploadService) finishSession(sess *uploadSession) {
	s.Cancels.Remove(sess.LessonID)
	s.discardSession(sess)
	s.Redis.Del(context.Background(), uploadSessionKeyPrefix+sess.UploadID)
}

func (s *UploadService) discardSession(sess *uploadSession) {
	s.mu.Lock()
	if _, ok := s.sessions[sess.UploadID]; ok {
		delete(s.sessions, sess.UploadID)
		delete(s.byLesson, sess.LessonID)
		monitoring.UploadSessionGauge.Dec()
	}
	s.mu.Unlock()
}

func (s *UploadService) persistProgress(ctx context.Context, sess *uploadSession) {
	s.mu.Lock()
	snapshot := sess.UploadSession
	snapshot.Chunks = nil
	s.mu.Unlock()

	payload, _ := json.Marshal(snapshot)
	ttl := time.Duration(s.cfg.Upload.SessionTTLHours) * time.Hour
	if err := s.Redis.Set(ctx, uploadSessionKeyPrefix+sess.UploadID, payload, ttl).Err(); err != nil {
		logger.Log.Debug("persist upload progress failed", zap.Error(err), zap.String("uploadId", sess.UploadID))
	}
}
