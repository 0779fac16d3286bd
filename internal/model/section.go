package model

// Section 章节：课程内的有序课时容器，Position 只表示显示顺序
// swagger:model Section
type Section struct {
	UUIDBase
	CourseID string   `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Position int      `gorm:"default:0" json:"position"`
	Lessons  []Lesson `gorm:"foreignKey:SectionID;references:ID" json:"lessons,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}
