package controller

import (
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeRepo *repository.BadgeRepository
}

func NewBadgeController(badgeRepo *repository.BadgeRepository) *BadgeController {
	return &BadgeController{BadgeRepo: badgeRepo}
}

// ListMine godoc
// @Summary 当前用户已获得的徽章
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/badges [get]
func (c *BadgeController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.BadgeRepo.FindForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"badges": badges})
}
