package service

import (
	"sync"

	"course_market_backend/pkg/logger"

	"go.uber.org/zap"
)

// CancelRegistry 让章节/课程编辑侧无需持有上传会话引用即可发起取消。
// Register 在已有句柄时不覆盖，避免挤掉仍在生效的取消句柄；
// Invoke 查找、调用并移除句柄。
type CancelRegistry struct {
	mu      sync.Mutex
	handles map[string]func()
}

func NewCancelRegistry() *CancelRegistry {
	return &CancelRegistry{
		handles: make(map[string]func()),
	}
}

// Register 为课时注册取消句柄，已存在时为 no-op
func (r *CancelRegistry) Register(lessonID string, cancelFn func()) {
	if lessonID == "" || cancelFn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handles[lessonID]; exists {
		logger.Log.Debug("cancel handle already registered", zap.String("lessonId", lessonID))
		return
	}
	r.handles[lessonID] = cancelFn
}

// Invoke 调用并丢弃课时的取消句柄，没有句柄时返回 false
func (r *CancelRegistry) Invoke(lessonID string) bool {
	r.mu.Lock()
	cancelFn, ok := r.handles[lessonID]
	if ok {
		delete(r.handles, lessonID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	cancelFn()
	return true
}

// Remove 仅移除句柄不调用，上传会话正常结束时使用
func (r *CancelRegistry) Remove(lessonID string) {
	r.mu.Lock()
	delete(r.handles, lessonID)
	r.mu.Unlock()
}
