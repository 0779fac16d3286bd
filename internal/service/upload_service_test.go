package service

import (
	"bytes"
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const mib = 1024 * 1024

func TestCreateUploadRejectsNonVideoBeforeAnySideEffect(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "notes.pdf", "application/pdf", 3*mib, 1, false)
	require.ErrorIs(t, err, util.ErrNotVideoFile)
	assert.Nil(t, target)

	// 拒绝发生在任何副作用之前
	assert.Zero(t, f.provider.uploadCount())
	assert.Zero(t, f.provider.deleteCount())
	var videoCount int64
	f.db.Model(&model.Video{}).Count(&videoCount)
	assert.Zero(t, videoCount)

	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.VideoID)
	assert.Equal(t, model.VideoStatusNone, got.VideoStatus)
}

func TestCreateUploadIssuesTargetAndMarksLesson(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 3*mib, 1, false)
	require.NoError(t, err)
	assert.NotEmpty(t, target.UploadID)
	assert.NotEmpty(t, target.VideoID)
	assert.NotEmpty(t, target.AssetID)
	assert.Equal(t, "/api/video/upload/"+target.UploadID+"/chunk", target.UploadURL)

	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, target.VideoID, got.VideoID)
	assert.Equal(t, model.VideoStatusUploading, got.VideoStatus)

	video, err := f.videos.FindByUploadID(target.UploadID)
	require.NoError(t, err)
	assert.Equal(t, target.VideoID, video.ID)
	assert.Equal(t, lesson.ID, video.LessonID)
}

func TestCreateUploadRejectsSecondInFlight(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	_, err := f.upload.CreateUpload(context.Background(), lesson.ID, "a.mp4", "video/mp4", 2*mib, 1, false)
	require.NoError(t, err)

	_, err = f.upload.CreateUpload(context.Background(), lesson.ID, "b.mp4", "video/mp4", 2*mib, 1, false)
	assert.ErrorIs(t, err, util.ErrUploadAlreadyActive)
}

func TestCreateUploadUnknownLesson(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.upload.CreateUpload(context.Background(), "no-such-lesson", "a.mp4", "video/mp4", mib, 1, false)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestPutChunkTracksProgress(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 3*mib, 1, false)
	require.NoError(t, err)

	progress, err := f.upload.PutChunk(context.Background(), target.UploadID, 0, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 33, progress)

	// 重复的分块不会重复计数
	progress, err = f.upload.PutChunk(context.Background(), target.UploadID, 0, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 33, progress)

	progress, err = f.upload.PutChunk(context.Background(), target.UploadID, 1, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 66, progress)

	snapshot, err := f.upload.GetProgress(context.Background(), target.UploadID, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.UploadedChunks)
	assert.Equal(t, model.UploadUploading, snapshot.Status)
}

func TestPutChunkUnknownSession(t *testing.T) {
	f := newUploadFixture(t)

	_, err := f.upload.PutChunk(context.Background(), "no-such-upload", 0, bytes.NewReader(nil), 1, false)
	assert.ErrorIs(t, err, util.ErrUploadNotFound)
}

func TestPutChunkIndexOutOfRange(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 2*mib, 1, false)
	require.NoError(t, err)

	_, err = f.upload.PutChunk(context.Background(), target.UploadID, 5, bytes.NewReader(nil), 1, false)
	assert.Error(t, err)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 3*mib, 1, false)
	require.NoError(t, err)
	_, err = f.upload.PutChunk(context.Background(), target.UploadID, 0, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)

	require.NoError(t, f.upload.Cancel(context.Background(), target.UploadID, 1, false))
	// 第二次取消是无操作
	require.NoError(t, f.upload.Cancel(context.Background(), target.UploadID, 1, false))

	// 回收只发生一次：恰好一条 cancelled 事件
	assert.Len(t, f.pub.byStatus(model.EventCancelled), 1)

	// 资产记录已删
	_, err = f.videos.FindByID(target.VideoID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 课时负载经事件路由被清空
	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.VideoID)
	assert.Equal(t, model.VideoStatusNone, got.VideoStatus)

	// 取消后同一课时可以重新发起上传
	_, err = f.upload.CreateUpload(context.Background(), lesson.ID, "retry.mp4", "video/mp4", mib, 1, false)
	assert.NoError(t, err)
}

func TestCancelRejectsFurtherChunks(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 3*mib, 1, false)
	require.NoError(t, err)
	require.NoError(t, f.upload.Cancel(context.Background(), target.UploadID, 1, false))

	_, err = f.upload.PutChunk(context.Background(), target.UploadID, 1, bytes.NewReader(make([]byte, mib)), 1, false)
	assert.ErrorIs(t, err, util.ErrUploadNotFound)
}

func TestDeleteVideoExactlyOneRemoteDelete(t *testing.T) {
	f := newUploadFixture(t)
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
		"video_status": model.VideoStatusReady,
	}))

	require.NoError(t, f.upload.DeleteVideo(context.Background(), "vid-1", 1, false))
	assert.Equal(t, 1, f.provider.deleteCount())

	// 第二次删除：记录已不存在，远端不再被触碰
	err := f.upload.DeleteVideo(context.Background(), "vid-1", 1, false)
	assert.ErrorIs(t, err, util.ErrVideoNotFound)
	assert.Equal(t, 1, f.provider.deleteCount())

	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.VideoID)
	assert.Equal(t, model.VideoStatusNone, got.VideoStatus)
}

func TestCreateUploadRejectsBadExtension(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	_, err := f.upload.CreateUpload(context.Background(), lesson.ID, "clip.exe", "video/mp4", mib, 1, false)
	require.ErrorIs(t, err, util.ErrNotVideoFile)

	assert.Zero(t, f.provider.uploadCount())
	var videoCount int64
	f.db.Model(&model.Video{}).Count(&videoCount)
	assert.Zero(t, videoCount)
}

func TestFinalChunkEntersProcessing(t *testing.T) {
	f := newUploadFixture(t)
	lesson := seedLesson(t, f.db, model.ContentVideo)

	target, err := f.upload.CreateUpload(context.Background(), lesson.ID, "intro.mp4", "video/mp4", 2*mib, 1, false)
	require.NoError(t, err)

	progress, err := f.upload.PutChunk(context.Background(), target.UploadID, 0, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 50, progress)

	progress, err = f.upload.PutChunk(context.Background(), target.UploadID, 1, bytes.NewReader(make([]byte, mib)), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 100, progress)

	// 收齐即进入处理阶段：恰好一条 processing 事件，课时状态同步翻转
	assert.Len(t, f.pub.byStatus(model.EventProcessing), 1)
	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusProcessing, got.VideoStatus)

	// 全零字节不是合法视频，处理管线最终报错而不是直接就绪
	require.Eventually(t, func() bool {
		return len(f.pub.byStatus(model.EventError)) == 1
	}, 10*time.Second, 20*time.Millisecond)
	assert.Empty(t, f.pub.byStatus(model.EventReady))
	assert.Len(t, f.pub.byStatus(model.EventProcessing), 1)

	got, err = f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusError, got.VideoStatus)
	assert.Empty(t, got.PlaybackID)

	video, err := f.videos.FindByID(target.VideoID)
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusError, video.Status)

	// 会话收尾后进度查询不再命中
	require.Eventually(t, func() bool {
		_, err := f.upload.GetProgress(context.Background(), target.UploadID, 1, false)
		return err != nil
	}, 10*time.Second, 20*time.Millisecond)
}
