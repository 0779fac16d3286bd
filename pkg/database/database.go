package database

import (
	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认课程分类（首次启动时插入）
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []model.Category{
			{Name: "Programming", Slug: "programming"},
			{Name: "Design", Slug: "design"},
			{Name: "Business", Slug: "business"},
			{Name: "Language", Slug: "language"},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}

	return db, nil
}

// Migrate 执行所有模型的自动迁移，sqlite 测试环境也会复用
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Section{},
		&model.Lesson{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAnswer{},
		&model.Material{},
		&model.Video{},
		&model.Enrollment{},
		&model.Voucher{},
		&model.Refund{},
	)
}
