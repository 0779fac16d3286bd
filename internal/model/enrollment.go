package model

import "time"

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID     uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	CourseID   string     `gorm:"index;type:varchar(36);not null" json:"courseId"`
	PricePaid  float64    `gorm:"default:0" json:"pricePaid"`
	VoucherID  *uint      `gorm:"index" json:"voucherId,omitempty"`
	Refunded   bool       `gorm:"default:false" json:"refunded"`
	EnrolledAt time.Time  `json:"enrolledAt"`
	RefundedAt *time.Time `json:"refundedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
