package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "id = ?", id).Error
	return &lesson, err
}

// FindByVideoID 按视频ID定位课时，状态事件路由只认这个键，
// 绝不按章节下标或数组位置定位
func (r *LessonRepository) FindByVideoID(videoID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "video_id = ?", videoID).Error
	return &lesson, err
}

func (r *LessonRepository) FindBySection(sectionID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("section_id = ?", sectionID).Order("position").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// UpdateFields 按课时ID合并更新部分字段
func (r *LessonRepository) UpdateFields(id string, updates map[string]interface{}) error {
	return r.DB.Model(&model.Lesson{}).Where("id = ?", id).Updates(updates).Error
}

func (r *LessonRepository) Delete(id string) error {
	return r.DB.Delete(&model.Lesson{}, "id = ?", id).Error
}

func (r *LessonRepository) Reorder(sectionID string, orderedIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Lesson{}).
				Where("id = ? AND section_id = ?", id, sectionID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
