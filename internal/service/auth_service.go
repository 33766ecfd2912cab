package service

import (
	"errors"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo  *repository.UserRepository
	SkillRepo *repository.SkillRepository
	Cfg       *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, skillRepo *repository.SkillRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		SkillRepo: skillRepo,
		Cfg:       cfg,
	}
}

// Register 注册用户并挂接技能（技能按名称 get-or-create），返回登录令牌
func (s *AuthService) Register(user *model.User, skillNames []string) (string, error) {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return "", util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.Password = string(hashedPassword)

	if err := s.UserRepo.Create(user); err != nil {
		return "", err
	}

	for _, name := range skillNames {
		skill, err := s.SkillRepo.GetOrCreate(name)
		if err != nil {
			return "", err
		}
		if err := s.UserRepo.AddSkill(user, skill); err != nil {
			return "", err
		}
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	user.LastLogin = time.Now()
	s.UserRepo.Update(user)

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByIDWithRelations(claims.UserID)
	return user
}
