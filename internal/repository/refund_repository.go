package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type RefundRepository struct {
	DB *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{DB: db}
}

func (r *RefundRepository) Create(refund *model.Refund) error {
	return r.DB.Create(refund).Error
}

func (r *RefundRepository) FindByID(id uint) (*model.Refund, error) {
	var refund model.Refund
	err := r.DB.First(&refund, id).Error
	return &refund, err
}

func (r *RefundRepository) ListByStatus(status model.RefundStatus, page, limit int) ([]model.Refund, int64, error) {
	var refunds []model.Refund
	var total int64
	q := r.DB.Model(&model.Refund{}).Where("status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset((page - 1) * limit).Limit(limit).Order("created_at").Find(&refunds).Error
	return refunds, total, err
}

func (r *RefundRepository) ListByUser(userID uint) ([]model.Refund, error) {
	var refunds []model.Refund
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&refunds).Error
	return refunds, err
}

func (r *RefundRepository) Update(refund *model.Refund) error {
	return r.DB.Save(refund).Error
}
