package service

import (
	"context"
	"course_market_backend/pkg/logger"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	deadLetterKey   = "cleanup:deadletter"
	cleanupInterval = time.Minute
	maxAttempts     = 10
)

// deadLetter 一次失败的远端删除，等待后台重试
type deadLetter struct {
	ObjectName string    `json:"objectName"`
	Attempts   int       `json:"attempts"`
	FirstSeen  time.Time `json:"firstSeen"`
}

// CleanupService 兜底清理：取消/删除时远端对象删不掉的，
// 先记入Redis死信队列，由后台循环重试，直到删成或超过重试上限
type CleanupService struct {
	Redis   *redis.Client
	Storage *StorageService
}

func NewCleanupService(rdb *redis.Client, storage *StorageService) *CleanupService {
	return &CleanupService{Redis: rdb, Storage: storage}
}

// Enqueue 记录一个删除失败的远端对象
func (s *CleanupService) Enqueue(objectName string) {
	if objectName == "" {
		return
	}
	payload, _ := json.Marshal(deadLetter{ObjectName: objectName, Attempts: 0, FirstSeen: time.Now()})
	if err := s.Redis.RPush(context.Background(), deadLetterKey, payload).Err(); err != nil {
		// Redis也不可达时只能靠日志人工兜底
		logger.Log.Error("enqueue dead letter failed", zap.Error(err), zap.String("objectName", objectName))
		return
	}
	logger.Log.Warn("remote delete deferred to cleanup queue", zap.String("objectName", objectName))
}

// Run 后台重试循环，随应用生命周期启动
func (s *CleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.drain(ctx)
		}
	}
}

func (s *CleanupService) drain(ctx context.Context) {
	n, err := s.Redis.LLen(ctx, deadLetterKey).Result()
	if err != nil {
		return
	}

	// 只处理本轮开始时已有的条目，失败重入队不会造成本轮空转
	for i := int64(0); i < n; i++ {
		raw, err := s.Redis.LPop(ctx, deadLetterKey).Result()
		if err != nil {
			return
		}

		var dl deadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			logger.Log.Error("malformed dead letter dropped", zap.String("raw", raw))
			continue
		}

		if err := s.Storage.Delete(ctx, dl.ObjectName); err != nil {
			dl.Attempts++
			if dl.Attempts >= maxAttempts {
				logger.Log.Error("dead letter exceeded retry limit, dropping",
					zap.String("objectName", dl.ObjectName), zap.Int("attempts", dl.Attempts))
				continue
			}
			payload, _ := json.Marshal(dl)
			s.Redis.RPush(ctx, deadLetterKey, payload)
			continue
		}

		logger.Log.Info("orphaned object cleaned up",
			zap.String("objectName", dl.ObjectName), zap.Int("attempts", dl.Attempts))
	}
}
