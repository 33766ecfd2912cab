package service

import (
	"fmt"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/pkg/database"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每个测试一个独立的内存库，避免用例间串数据
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, xp int) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(name, " ", "."))),
		Password: "hashed-password",
		XP:       xp,
	}
	require.NoError(t, db.Create(user).Error)
	// 零值 XP 会被默认值标签覆盖成 100，这里强制写回
	if xp == 0 {
		require.NoError(t, db.Model(user).Update("xp", 0).Error)
		user.XP = 0
	}
	return user
}

func createTestSkill(t *testing.T, db *gorm.DB, name string) *model.Skill {
	t.Helper()

	skill := &model.Skill{Name: name}
	require.NoError(t, db.Create(skill).Error)
	return skill
}

func attachSkill(t *testing.T, db *gorm.DB, user *model.User, skill *model.Skill) {
	t.Helper()
	require.NoError(t, db.Model(user).Association("Skills").Append(skill))
}
