package controller

import (
	"errors"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// BookSessionRequest 预约会话请求
// swagger:model BookSessionRequest
type BookSessionRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	TeacherID     uint   `json:"teacher_id" binding:"required"`
	LearnSkill    string `json:"learn_skill" binding:"required"`
	TeachSkill    string `json:"teach_skill"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
}

// Book godoc
// @Summary 预约教学会话
// @Description 在学习者和教师之间创建一次待完成的会话
// @Tags 会话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BookSessionRequest true "预约信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/sessions [post]
func (c *SessionController) Book(ctx *gin.Context) {
	var req BookSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	at, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		util.BadRequest(ctx, "Invalid scheduled_date format")
		return
	}

	session, err := c.SessionService.Book(service.BookSessionInput{
		LearnerID:  req.UserID,
		TeacherID:  req.TeacherID,
		LearnSkill: req.LearnSkill,
		TeachSkill: req.TeachSkill,
		At:         at,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrSelfSession):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"status":     "scheduled",
		"session_id": session.ID,
	})
}

// List godoc
// @Summary 列出我的会话
// @Description 当前用户作为学习者或教师参与的全部会话
// @Tags 会话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.SessionService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"sessions": sessions})
}

// Complete godoc
// @Summary 标记会话完成
// @Description 将会话从 pending 置为 completed；重复调用返回提示而非错误
// @Tags 会话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/complete-session/{id} [post]
func (c *SessionController) Complete(ctx *gin.Context) {
	sessionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid session ID")
		return
	}

	already, err := c.SessionService.Complete(uint(sessionID))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if already {
		util.Success(ctx, gin.H{"status": "already completed"})
		return
	}
	util.Success(ctx, gin.H{"status": "completed"})
}

// RateRequest 评分请求
// swagger:model RateRequest
type RateRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// Rate godoc
// @Summary 为已完成的会话评分
// @Description 创建评分记录并给教师按分值发放积分；每个会话只能评分一次
// @Tags 会话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Param   body body RateRequest true "评分"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "会话未完成或已评分"
// @Router /api/rate-teacher/{id} [post]
func (c *SessionController) Rate(ctx *gin.Context) {
	sessionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid session ID")
		return
	}

	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rating, err := c.SessionService.Rate(uint(sessionID), req.Rating, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrSessionNotCompleted), errors.Is(err, util.ErrAlreadyRated):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"status":    "rated",
		"rating_id": rating.ID,
	})
}

// parseScheduledDate 兼容 RFC3339 与 "2006-01-02 15:04:05" 两种格式
func parseScheduledDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(util.TimeFormat, value)
}
