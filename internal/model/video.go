package model

// Video 视频资产记录：上传会话结束后长期保存的部分
// swagger:model Video
type Video struct {
	UUIDBase
	LessonID   string      `gorm:"index;type:varchar(36)" json:"lessonId"`
	AssetID    string      `gorm:"size:64" json:"assetId"`
	PlaybackID string      `gorm:"size:64" json:"playbackId"`
	UploadID   string      `gorm:"index;size:36" json:"uploadId"`
	Title      string      `gorm:"size:255" json:"title"`
	ContentURL string      `gorm:"size:255" json:"contentUrl"`
	Thumbnail  string      `gorm:"size:255" json:"thumbnail"`
	Duration   float64     `gorm:"default:0" json:"duration"`
	Size       int64       `gorm:"default:0" json:"size"`
	Format     string      `gorm:"size:50" json:"format"`
	Status     VideoStatus `gorm:"type:varchar(20);default:'uploading'" json:"status"`
	Error      string      `gorm:"size:500" json:"error,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
