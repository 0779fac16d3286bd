package model

// Material 课时附件（文档/图片等），文件本体在对象存储中
// swagger:model Material
type Material struct {
	UUIDBase
	SectionID  string `gorm:"index;type:varchar(36)" json:"sectionId"`
	LessonID   string `gorm:"index;type:varchar(36)" json:"lessonId"`
	FileName   string `gorm:"size:255;not null" json:"fileName"`
	StorageKey string `gorm:"size:255;not null" json:"-"`
	FileURL    string `gorm:"size:255;not null" json:"fileUrl"`
	Size       int64  `gorm:"default:0" json:"size"`
	MimeType   string `gorm:"size:100" json:"mimeType"`
	UploaderID uint   `gorm:"index;type:bigint unsigned" json:"uploaderId"`
}

func (Material) TableName() string {
	return "materials"
}
