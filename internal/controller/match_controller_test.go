package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/pkg/database"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubEmbedder struct{}

func (stubEmbedder) Vector(_ context.Context, _ string) ([]float64, error) {
	return []float64{0, 0, 1}, nil
}

func setupMatchRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	matchSvc := service.NewMatchService(repository.NewSkillRepository(db), stubEmbedder{}, 0.5, false)

	router := gin.New()
	router.POST("/api/find_match", NewMatchController(matchSvc).FindMatch)
	return router, db
}

func postFindMatch(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/find_match", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestFindMatchEndpoint(t *testing.T) {
	router, db := setupMatchRouter(t)

	skill := &model.Skill{Name: "Python"}
	require.NoError(t, db.Create(skill).Error)
	teacher := &model.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(teacher).Error)
	require.NoError(t, db.Model(teacher).Association("Skills").Append(skill))

	w, resp := postFindMatch(t, router, `{"learn": "python"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	match := data["match"].(map[string]interface{})
	assert.Equal(t, "Alice", match["name"])
	assert.Equal(t, "Python", match["teaches"])
	assert.Equal(t, 1.0, match["similarity_score"])
}

// 业务上的未匹配按 200 + match=null 返回，而不是错误状态码
func TestFindMatchEndpointNoSkill(t *testing.T) {
	router, _ := setupMatchRouter(t)

	w, resp := postFindMatch(t, router, `{"learn": "Juggling"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Nil(t, data["match"])
	assert.Equal(t, "No such skill found in the database", data["message"])
}

func TestFindMatchEndpointNoTeachers(t *testing.T) {
	router, db := setupMatchRouter(t)

	require.NoError(t, db.Create(&model.Skill{Name: "Guitar"}).Error)

	w, resp := postFindMatch(t, router, `{"learn": "Guitar"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Nil(t, data["match"])
	assert.Equal(t, "No users found with this skill", data["message"])
}

func TestFindMatchEndpointMissingBody(t *testing.T) {
	router, _ := setupMatchRouter(t)

	w, resp := postFindMatch(t, router, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Skill to learn is required", resp["message"])
}
