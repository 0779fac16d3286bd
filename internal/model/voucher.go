package model

import "time"

// Voucher 折扣码，DiscountPct 为百分比折扣 (1-100)
// swagger:model Voucher
type Voucher struct {
	BaseModel
	Code        string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	DiscountPct int        `gorm:"not null" json:"discountPct"`
	MaxUses     int        `gorm:"default:0" json:"maxUses"` // 0 表示不限次数
	UsedCount   int        `gorm:"default:0" json:"usedCount"`
	ValidFrom   time.Time  `json:"validFrom"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	Enabled     bool       `gorm:"default:true" json:"enabled"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

// IsUsable 判断折扣码当前是否可用
func (v *Voucher) IsUsable(now time.Time) bool {
	if !v.Enabled {
		return false
	}
	if now.Before(v.ValidFrom) {
		return false
	}
	if v.ValidUntil != nil && now.After(*v.ValidUntil) {
		return false
	}
	if v.MaxUses > 0 && v.UsedCount >= v.MaxUses {
		return false
	}
	return true
}
