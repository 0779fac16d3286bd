package model

type CourseStatus string

const (
	CourseDraft    CourseStatus = "draft"
	CoursePending  CourseStatus = "pending"  // 已提交，等待管理员审核
	CourseApproved CourseStatus = "approved" // 审核通过，可被报名
	CourseRejected CourseStatus = "rejected"
)

// Course 课程聚合根：课程 → 有序章节 → 有序课时
// swagger:model Course
type Course struct {
	UUIDBase
	Title        string       `gorm:"size:255;not null" json:"title"`
	Subtitle     string       `gorm:"size:255" json:"subtitle"`
	Description  string       `gorm:"type:text" json:"description"`
	Price        float64      `gorm:"default:0" json:"price"`
	Thumbnail    string       `gorm:"size:255" json:"thumbnail"`
	Status       CourseStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	RejectReason string       `gorm:"size:500" json:"rejectReason,omitempty"`
	CategoryID   uint         `gorm:"index;type:bigint unsigned" json:"categoryId"`
	InstructorID uint         `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Sections     []Section    `gorm:"foreignKey:CourseID;references:ID" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Category
type Category struct {
	BaseModel
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Icon string `gorm:"size:255" json:"icon"`
}

func (Category) TableName() string {
	return "categories"
}
