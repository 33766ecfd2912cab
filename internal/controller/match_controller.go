package controller

import (
	"errors"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/internal/util"
	"skillbloom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type MatchController struct {
	MatchService *service.MatchService
}

func NewMatchController(matchService *service.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// FindMatchRequest 匹配请求
// swagger:model FindMatchRequest
type FindMatchRequest struct {
	Learn string `json:"learn" binding:"required"`
}

// FindMatch godoc
// @Summary 查找技能教师
// @Description 根据想学的技能，用文本相似度挑选最合适的教师。
// @Description 未找到匹配时返回 match=null 和说明信息，而不是错误。
// @Tags 匹配
// @Accept  json
// @Produce  json
// @Param   body body FindMatchRequest true "想学的技能"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "缺少技能名称"
// @Failure 502 {object} util.Response "相似度服务不可用"
// @Router /api/find_match [post]
func (c *MatchController) FindMatch(ctx *gin.Context) {
	var req FindMatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Skill to learn is required")
		return
	}

	match, err := c.MatchService.FindMatch(ctx.Request.Context(), req.Learn)
	if err != nil {
		// 业务上的"未匹配"按 200 + match=null 返回，与错误区分
		switch {
		case errors.Is(err, util.ErrSkillNotFound):
			monitoring.MatchCounter.WithLabelValues("no_skill").Inc()
			util.Success(ctx, gin.H{"match": nil, "message": "No such skill found in the database"})
		case errors.Is(err, util.ErrNoTeachers):
			monitoring.MatchCounter.WithLabelValues("no_teachers").Inc()
			util.Success(ctx, gin.H{"match": nil, "message": "No users found with this skill"})
		case errors.Is(err, util.ErrNoSuitableMatch):
			monitoring.MatchCounter.WithLabelValues("below_threshold").Inc()
			util.Success(ctx, gin.H{"match": nil, "message": "No suitable match found"})
		case errors.Is(err, util.ErrEmbeddingUnavailable):
			monitoring.MatchCounter.WithLabelValues("upstream_error").Inc()
			util.BadGateway(ctx, "Similarity service unavailable")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.MatchCounter.WithLabelValues("matched").Inc()
	util.Success(ctx, gin.H{"match": match})
}
