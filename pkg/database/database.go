package database

import (
	"fmt"
	"log"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/model"

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
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedSkills(db)

	return db, nil
}

// Migrate 执行全部表结构迁移。测试里用 sqlite 复用同一份列表。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.ScheduledSession{},
		&model.Rating{},
		&model.Badge{},
		&model.XPTransaction{},
	)
}

// seedSkills 技能表为空时插入演示技能
func seedSkills(db *gorm.DB) {
	var count int64
	db.Model(&model.Skill{}).Count(&count)
	if count > 0 {
		return
	}

	defaultSkills := []model.Skill{
		{Name: "Photography", Description: "Camera basics, composition and editing"},
		{Name: "Coding", Description: "Programming fundamentals"},
		{Name: "Cooking", Description: "Home cooking and knife skills"},
		{Name: "Python", Description: "Python programming"},
		{Name: "Guitar", Description: "Acoustic guitar for beginners"},
	}
	for _, s := range defaultSkills {
		db.Create(&s)
	}
}
