package model

type LessonContentType string

const (
	ContentVideo    LessonContentType = "video"
	ContentMaterial LessonContentType = "material"
	ContentQuiz     LessonContentType = "quiz"
)

type VideoStatus string

const (
	VideoStatusNone       VideoStatus = ""
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusProcessing VideoStatus = "processing" // 分块流已收齐，尚未确认可播放
	VideoStatusReady      VideoStatus = "ready"      // 仅由状态事件设置，本地完成不代表可播放
	VideoStatusError      VideoStatus = "error"
)

// Lesson 课时：contentType 与其负载字段必须一致，
// 任一时刻只允许一种内容类型的负载字段被填充
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	SectionID   string            `gorm:"index;type:varchar(36);not null" json:"sectionId"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Position    int               `gorm:"default:0" json:"position"`
	ContentType LessonContentType `gorm:"type:varchar(20);not null;default:'video'" json:"contentType"`

	// 视频负载
	VideoID     string      `gorm:"index;size:36" json:"videoId,omitempty"`
	AssetID     string      `gorm:"size:64" json:"assetId,omitempty"`
	PlaybackID  string      `gorm:"size:64" json:"playbackId,omitempty"`
	ContentURL  string      `gorm:"size:255" json:"contentUrl,omitempty"`
	Thumbnail   string      `gorm:"size:255" json:"thumbnail,omitempty"`
	Duration    float64     `gorm:"default:0" json:"duration,omitempty"`
	VideoStatus VideoStatus `gorm:"type:varchar(20);default:''" json:"videoStatus,omitempty"`
	VideoError  string      `gorm:"size:500" json:"videoError,omitempty"`

	// 资料负载
	MaterialID string `gorm:"index;size:36" json:"materialId,omitempty"`
	FileName   string `gorm:"size:255" json:"fileName,omitempty"`
	FileURL    string `gorm:"size:255" json:"fileUrl,omitempty"`

	// 测验负载
	QuizID string `gorm:"index;size:36" json:"quizId,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// ClearVideoFields 清空视频负载的更新集，取消/删除视频和切换内容类型时使用
func ClearVideoFields() map[string]interface{} {
	return map[string]interface{}{
		"video_id":     "",
		"asset_id":     "",
		"playback_id":  "",
		"content_url":  "",
		"thumbnail":    "",
		"duration":     0,
		"video_status": VideoStatusNone,
		"video_error":  "",
	}
}

// ClearMaterialFields 清空资料负载的更新集
func ClearMaterialFields() map[string]interface{} {
	return map[string]interface{}{
		"material_id": "",
		"file_name":   "",
		"file_url":    "",
	}
}

// ClearQuizFields 清空测验负载的更新集
func ClearQuizFields() map[string]interface{} {
	return map[string]interface{}{"quiz_id": ""}
}
