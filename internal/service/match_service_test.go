package service

import (
	"context"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeEmbedder 固定向量表，未登记的文本返回正交向量
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (f *fakeEmbedder) Vector(_ context.Context, text string) ([]float64, error) {
	f.calls++
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float64{0, 0, 1}, nil
}

func newMatchServiceForTest(t *testing.T, db *gorm.DB, embedder Embedder) *MatchService {
	t.Helper()
	return NewMatchService(repository.NewSkillRepository(db), embedder, 0.5, false)
}

func TestFindMatchExactSkillName(t *testing.T) {
	db := setupTestDB(t)

	python := createTestSkill(t, db, "Python")
	teacher := createTestUser(t, db, "Alice", 100)
	attachSkill(t, db, teacher, python)

	embedder := &fakeEmbedder{}
	svc := newMatchServiceForTest(t, db, embedder)

	match, err := svc.FindMatch(context.Background(), "python")
	require.NoError(t, err)

	assert.Equal(t, teacher.ID, match.ID)
	assert.Equal(t, "Alice", match.Name)
	assert.Equal(t, "Python", match.Teaches)
	assert.Equal(t, 1.0, match.SimilarityScore)
	// 名称完全一致时不应发起向量调用
	assert.Zero(t, embedder.calls)
}

func TestFindMatchUnknownSkill(t *testing.T) {
	db := setupTestDB(t)
	svc := newMatchServiceForTest(t, db, &fakeEmbedder{})

	_, err := svc.FindMatch(context.Background(), "Underwater Basket Weaving")
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}

func TestFindMatchNoTeachers(t *testing.T) {
	db := setupTestDB(t)
	createTestSkill(t, db, "Guitar")

	svc := newMatchServiceForTest(t, db, &fakeEmbedder{})

	_, err := svc.FindMatch(context.Background(), "Guitar")
	assert.ErrorIs(t, err, util.ErrNoTeachers)
}

func TestSimilarityScoring(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"Coding":  {1, 0, 0},
		"Python":  {0.9, 0.1, 0},
		"Cooking": {0, 1, 0},
	}}
	svc := NewMatchService(nil, embedder, 0.5, false)
	ctx := context.Background()

	// 名称一致（忽略大小写和两端空白）直接满分
	exact, err := svc.similarity(ctx, "Coding", "  coding ")
	require.NoError(t, err)
	assert.Equal(t, 1.0, exact)

	near, err := svc.similarity(ctx, "Coding", "Python")
	require.NoError(t, err)
	far, err := svc.similarity(ctx, "Coding", "Cooking")
	require.NoError(t, err)

	assert.Greater(t, near, far)
	assert.Less(t, near, 1.0)
	assert.Zero(t, far)
}

func TestFindMatchTieGoesToFirstCandidate(t *testing.T) {
	db := setupTestDB(t)

	guitar := createTestSkill(t, db, "Guitar")

	first := createTestUser(t, db, "First", 100)
	attachSkill(t, db, first, guitar)
	second := createTestUser(t, db, "Second", 100)
	attachSkill(t, db, second, guitar)

	svc := newMatchServiceForTest(t, db, &fakeEmbedder{})

	match, err := svc.FindMatch(context.Background(), "Guitar")
	require.NoError(t, err)
	assert.Equal(t, first.ID, match.ID)
}

func TestFindMatchEnforcedThreshold(t *testing.T) {
	db := setupTestDB(t)

	coding := createTestSkill(t, db, "Coding")
	teacher := createTestUser(t, db, "Alice", 100)
	attachSkill(t, db, teacher, coding)

	// 阈值设到满分之上，强制模式下任何候选都会被拒
	svc := NewMatchService(repository.NewSkillRepository(db), &fakeEmbedder{}, 1.01, true)

	_, err := svc.FindMatch(context.Background(), "Coding")
	assert.ErrorIs(t, err, util.ErrNoSuitableMatch)

	// 热更新放宽阈值后同样的数据可以匹配成功
	svc.SetPolicy(0.5, true)
	match, err := svc.FindMatch(context.Background(), "Coding")
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, match.ID)
}
