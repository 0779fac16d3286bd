package service

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/pkg/database"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestRedis 指向不存在的地址，超时极短。
// 进度快照等Redis操作都是尽力而为的，失败不影响被测逻辑
func newTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
		ReadTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Upload.ChunkSizeMB = 1
	cfg.Upload.SessionTTLHours = 1
	cfg.Storage.Type = "local"
	return cfg
}

// countingProvider 统计存储调用次数的假对象存储
type countingProvider struct {
	mu        sync.Mutex
	uploads   int
	deletes   int
	deleted   []string
	failDel   bool
	uploadDir string
}

func (p *countingProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	p.mu.Lock()
	p.uploads++
	p.mu.Unlock()
	io.Copy(io.Discard, reader)
	return "/fake/" + filename, nil
}

func (p *countingProvider) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	p.mu.Lock()
	p.uploads++
	p.mu.Unlock()
	return "/fake/" + filename, nil
}

func (p *countingProvider) Delete(ctx context.Context, filename string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDel {
		return os.ErrPermission
	}
	p.deletes++
	p.deleted = append(p.deleted, filename)
	return nil
}

func (p *countingProvider) GetURL(filename string) string {
	return "/fake/" + filename
}

func (p *countingProvider) deleteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deletes
}

func (p *countingProvider) uploadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploads
}

// recordingPublisher 把事件记下来并像推送枢纽一样先走路由
type recordingPublisher struct {
	mu     sync.Mutex
	router *StatusRouter
	events []model.VideoStatusEvent
}

func (p *recordingPublisher) Publish(event model.VideoStatusEvent) {
	if p.router != nil {
		p.router.Route(event)
	}
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *recordingPublisher) byStatus(status string) []model.VideoStatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.VideoStatusEvent
	for _, e := range p.events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// seedLesson 建一条 课程→章节→课时 链并返回课时
func seedLesson(t *testing.T, db *gorm.DB, contentType model.LessonContentType) *model.Lesson {
	t.Helper()
	course := &model.Course{Title: "Go 实战", Status: model.CourseDraft, InstructorID: 1}
	require.NoError(t, db.Create(course).Error)
	section := &model.Section{CourseID: course.ID, Title: "第一章"}
	require.NoError(t, db.Create(section).Error)
	lesson := &model.Lesson{SectionID: section.ID, Title: "第一课", ContentType: contentType}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

type uploadFixture struct {
	db       *gorm.DB
	provider *countingProvider
	pub      *recordingPublisher
	lessons  *repository.LessonRepository
	videos   *repository.VideoRepository
	upload   *UploadService
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()
	db := newTestDB(t)
	rdb := newTestRedis()
	provider := &countingProvider{}
	storage := &StorageService{Provider: provider}
	lessons := repository.NewLessonRepository(db)
	videos := repository.NewVideoRepository(db)
	owner := NewOwnershipService(repository.NewCourseRepository(db), repository.NewSectionRepository(db), lessons)
	pub := &recordingPublisher{router: NewStatusRouter(lessons)}
	cleanup := NewCleanupService(rdb, storage)

	upload := NewUploadService(newTestConfig(), videos, lessons, owner, storage, pub, NewCancelRegistry(), cleanup, rdb)
	return &uploadFixture{
		db:       db,
		provider: provider,
		pub:      pub,
		lessons:  lessons,
		videos:   videos,
		upload:   upload,
	}
}
