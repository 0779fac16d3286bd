package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(material *model.Material) error {
	return r.DB.Create(material).Error
}

func (r *MaterialRepository) FindByID(id string) (*model.Material, error) {
	var material model.Material
	err := r.DB.First(&material, "id = ?", id).Error
	return &material, err
}

func (r *MaterialRepository) Delete(id string) error {
	return r.DB.Delete(&model.Material{}, "id = ?", id).Error
}
