package controller

import (
	"errors"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SkillController struct {
	SkillRepo *repository.SkillRepository
}

func NewSkillController(skillRepo *repository.SkillRepository) *SkillController {
	return &SkillController{SkillRepo: skillRepo}
}

// List godoc
// @Summary 技能列表
// @Tags 技能
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	skills, err := c.SkillRepo.FindAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"skills": skills})
}

// Teachers godoc
// @Summary 查询能教某技能的用户
// @Description 技能名不区分大小写
// @Tags 技能
// @Produce  json
// @Param   name path string true "技能名"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "技能不存在"
// @Router /api/skills/{name}/teachers [get]
func (c *SkillController) Teachers(ctx *gin.Context) {
	skill, err := c.SkillRepo.FindByName(ctx.Param("name"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(ctx, 404, "No such skill found in the database")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	teachers, err := c.SkillRepo.FindTeachers(skill.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"skill": skill.Name, "teachers": teachers})
}
