package repository

import (
	"course_market_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	return &course, err
}

// FindByIDWithTree 按ID查询课程并按 position 预加载章节和课时
func (r *CourseRepository) FindByIDWithTree(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.position")
		}).
		Preload("Sections.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position")
		}).
		First(&course, "id = ?", id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) UpdateStatus(id string, status model.CourseStatus, rejectReason string) error {
	return r.DB.Model(&model.Course{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        status,
		"reject_reason": rejectReason,
	}).Error
}

func (r *CourseRepository) Delete(id string) error {
	return r.DB.Delete(&model.Course{}, "id = ?", id).Error
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByStatus(status model.CourseStatus, page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64
	q := r.DB.Model(&model.Course{}).Where("status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset((page - 1) * limit).Limit(limit).Order("created_at DESC").Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListApproved(categoryID uint, page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64
	q := r.DB.Model(&model.Course{}).Where("status = ?", model.CourseApproved)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset((page - 1) * limit).Limit(limit).Order("created_at DESC").Find(&courses).Error
	return courses, total, err
}
