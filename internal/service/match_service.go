package service

import (
	"context"
	"errors"
	"math"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// MatchResult 匹配到的教师，向调用方暴露的规范结构
type MatchResult struct {
	ID              uint              `json:"id"`
	Name            string            `json:"name"`
	Teaches         string            `json:"teaches"`
	Proficiency     model.Proficiency `json:"proficiency"`
	SimilarityScore float64           `json:"similarity_score"`
}

// MatchService 为想学某技能的用户挑选教师：
// 取出技能的候选教师，对每个 (教师, 技能) 组合打相似度分，取最高者。
// 阈值和是否强制阈值来自配置，支持热更新。
type MatchService struct {
	SkillRepo *repository.SkillRepository
	Embedder  Embedder

	mu               sync.RWMutex
	threshold        float64
	enforceThreshold bool
}

func NewMatchService(skillRepo *repository.SkillRepository, embedder Embedder, threshold float64, enforce bool) *MatchService {
	return &MatchService{
		SkillRepo:        skillRepo,
		Embedder:         embedder,
		threshold:        threshold,
		enforceThreshold: enforce,
	}
}

// SetPolicy 配置热更新入口，见 pkg/configwatcher
func (s *MatchService) SetPolicy(threshold float64, enforce bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = threshold
	s.enforceThreshold = enforce
}

func (s *MatchService) policy() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold, s.enforceThreshold
}

// FindMatch 纯选择逻辑，无副作用。
// 平分时先遇到的候选人胜出（按 user id 稳定排序，严格大于才替换）。
func (s *MatchService) FindMatch(ctx context.Context, learnSkillName string) (*MatchResult, error) {
	learnSkill, err := s.SkillRepo.FindByName(learnSkillName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}

	teachers, err := s.SkillRepo.FindTeachers(learnSkill.ID)
	if err != nil {
		return nil, err
	}
	if len(teachers) == 0 {
		return nil, util.ErrNoTeachers
	}

	var bestMatch *model.User
	highestSimilarity := 0.0

	for i := range teachers {
		teacher := &teachers[i]
		for _, skill := range teacher.Skills {
			similarity, err := s.similarity(ctx, learnSkill.Name, skill.Name)
			if err != nil {
				return nil, err
			}
			if similarity > highestSimilarity {
				highestSimilarity = similarity
				bestMatch = teacher
			}
		}
	}

	threshold, enforce := s.policy()
	if bestMatch == nil || (enforce && highestSimilarity < threshold) {
		return nil, util.ErrNoSuitableMatch
	}

	return &MatchResult{
		ID:              bestMatch.ID,
		Name:            bestMatch.Name,
		Teaches:         learnSkill.Name,
		Proficiency:     bestMatch.Proficiency,
		SimilarityScore: math.Round(highestSimilarity*100) / 100,
	}, nil
}

// similarity 名称完全一致（忽略大小写）直接记 1.0，省一次外部调用；
// 否则走向量余弦相似度。
func (s *MatchService) similarity(ctx context.Context, target, candidate string) (float64, error) {
	if strings.EqualFold(strings.TrimSpace(target), strings.TrimSpace(candidate)) {
		return 1.0, nil
	}

	targetVec, err := s.Embedder.Vector(ctx, target)
	if err != nil {
		return 0, err
	}
	candidateVec, err := s.Embedder.Vector(ctx, candidate)
	if err != nil {
		return 0, err
	}

	return Cosine(targetVec, candidateVec), nil
}
