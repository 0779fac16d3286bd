package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type VoucherRepository struct {
	DB *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) *VoucherRepository {
	return &VoucherRepository{DB: db}
}

func (r *VoucherRepository) Create(voucher *model.Voucher) error {
	return r.DB.Create(voucher).Error
}

func (r *VoucherRepository) FindByCode(code string) (*model.Voucher, error) {
	var voucher model.Voucher
	err := r.DB.Where("code = ?", code).First(&voucher).Error
	return &voucher, err
}

func (r *VoucherRepository) List() ([]model.Voucher, error) {
	var vouchers []model.Voucher
	err := r.DB.Order("created_at DESC").Find(&vouchers).Error
	return vouchers, err
}

func (r *VoucherRepository) Update(voucher *model.Voucher) error {
	return r.DB.Save(voucher).Error
}

// IncrementUsed 原子递增使用次数
func (r *VoucherRepository) IncrementUsed(id uint) error {
	return r.DB.Model(&model.Voucher{}).
		Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).
		Error
}

func (r *VoucherRepository) SetEnabled(id uint, enabled bool) error {
	return r.DB.Model(&model.Voucher{}).Where("id = ?", id).Update("enabled", enabled).Error
}

func (r *VoucherRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Voucher{}, id).Error
}
