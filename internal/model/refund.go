package model

import "time"

type RefundStatus string

const (
	RefundPending  RefundStatus = "pending"
	RefundApproved RefundStatus = "approved"
	RefundRejected RefundStatus = "rejected"
)

// Refund 退款申请，由管理员审核
// swagger:model Refund
type Refund struct {
	BaseModel
	EnrollmentID uint         `gorm:"index;type:bigint unsigned;not null" json:"enrollmentId"`
	UserID       uint         `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Reason       string       `gorm:"size:500" json:"reason"`
	Status       RefundStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewerID   *uint        `gorm:"index" json:"reviewerId,omitempty"`
	ReviewNote   string       `gorm:"size:500" json:"reviewNote,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewedAt,omitempty"`
}

func (Refund) TableName() string {
	return "refunds"
}
