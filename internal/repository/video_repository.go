package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *VideoRepository) FindByID(id string) (*model.Video, error) {
	var video model.Video
	err := r.DB.First(&video, "id = ?", id).Error
	return &video, err
}

func (r *VideoRepository) FindByUploadID(uploadID string) (*model.Video, error) {
	var video model.Video
	err := r.DB.First(&video, "upload_id = ?", uploadID).Error
	return &video, err
}

func (r *VideoRepository) Update(video *model.Video) error {
	return r.DB.Save(video).Error
}

func (r *VideoRepository) UpdateFields(id string, updates map[string]interface{}) error {
	return r.DB.Model(&model.Video{}).Where("id = ?", id).Updates(updates).Error
}

func (r *VideoRepository) Delete(id string) error {
	return r.DB.Delete(&model.Video{}, "id = ?", id).Error
}
