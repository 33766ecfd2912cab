// 手动灌入演示数据脚本
//
// 注册几个带技能的演示用户并互相预约会话，方便本地联调匹配和评分流程。
// 重复执行是安全的：已存在的邮箱会被跳过。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/pkg/database"
	"skillbloom_backend/pkg/logger"
	"time"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	authSvc := service.NewAuthService(userRepo, skillRepo, cfg)

	demoUsers := []struct {
		user   model.User
		skills []string
	}{
		{model.User{Name: "Alice Zhang", Email: "alice@skillbloom.dev", Password: "password123", Proficiency: model.Expert}, []string{"Python", "Coding"}},
		{model.User{Name: "Bob Kumar", Email: "bob@skillbloom.dev", Password: "password123", Proficiency: model.Intermediate}, []string{"Guitar", "Photography"}},
		{model.User{Name: "Carol Lin", Email: "carol@skillbloom.dev", Password: "password123"}, []string{"Cooking"}},
	}

	ids := make([]uint, 0, len(demoUsers))
	for i := range demoUsers {
		u := demoUsers[i].user
		if existing, err := userRepo.FindByEmail(u.Email); err == nil {
			log.Printf("跳过已存在用户: %s", u.Email)
			ids = append(ids, existing.ID)
			continue
		}
		if _, err := authSvc.Register(&u, demoUsers[i].skills); err != nil {
			log.Fatalf("创建演示用户失败 (%s): %v", u.Email, err)
		}
		log.Printf("已创建: %s", u.Email)
		ids = append(ids, u.ID)
	}

	if len(ids) >= 2 {
		badgeSvc := service.NewBadgeService(repository.NewBadgeRepository(db), userRepo)
		sessionSvc := service.NewSessionService(
			repository.NewSessionRepository(db),
			repository.NewRatingRepository(db),
			userRepo,
			skillRepo,
			badgeSvc,
			db,
		)
		if _, err := sessionSvc.Book(service.BookSessionInput{
			LearnerID:  ids[1],
			TeacherID:  ids[0],
			LearnSkill: "Python",
			At:         time.Now().Add(48 * time.Hour),
		}); err != nil {
			log.Printf("预约演示会话失败: %v", err)
		}
	}

	log.Println("完成！")
}
