package model

import "time"

type UploadStatus string

const (
	UploadIdle       UploadStatus = "idle"
	UploadUploading  UploadStatus = "uploading"
	UploadProcessing UploadStatus = "processing"
	UploadSuccess    UploadStatus = "success"
	UploadError      UploadStatus = "error"
)

// UploadSession 分块上传会话，仅在 status ∈ {uploading, processing} 期间存在，
// 进入终态或被取消后即删除。进度信息同时写入Redis供查询接口共享
type UploadSession struct {
	UploadID       string       `json:"uploadId"`
	VideoID        string       `json:"videoId"`
	AssetID        string       `json:"assetId"`
	LessonID       string       `json:"lessonId"`
	InstructorID   uint         `json:"instructorId"`
	Filename       string       `json:"filename"`
	MimeType       string       `json:"mimeType"`
	TotalChunks    int          `json:"totalChunks"`
	UploadedChunks int          `json:"uploadedChunks"`
	FileSize       int64        `json:"fileSize"`
	Progress       int          `json:"progress"` // 0-100，展示最新值，不强制单调
	Status         UploadStatus `json:"status"`
	Chunks         map[int]bool `json:"chunks"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// UploadTarget 发给客户端的上传目标
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	UploadID  string `json:"uploadId"`
	VideoID   string `json:"videoId"`
	AssetID   string `json:"assetId"`
}

// VideoStatusEvent 推送通道下发的视频状态事件，按 VideoID 路由
type VideoStatusEvent struct {
	VideoID    string  `json:"videoId"`
	Status     string  `json:"status"` // processing / ready / error / cancelled
	AssetID    string  `json:"assetId,omitempty"`
	PlaybackID string  `json:"playbackId,omitempty"`
	ContentURL string  `json:"contentUrl,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// 推送事件的 status 取值
const (
	EventProcessing = "processing"
	EventReady      = "ready"
	EventError      = "error"
	EventCancelled  = "cancelled"
)
