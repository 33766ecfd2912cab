package controller

import (
	"errors"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/internal/util"
	"skillbloom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// SendSMSRequest 短信通知请求
// swagger:model SendSMSRequest
type SendSMSRequest struct {
	PhoneNumber   string `json:"phone_number" binding:"required"`
	SkillName     string `json:"skill_name" binding:"required"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
	Student       string `json:"student" binding:"required"`
}

// SendSMS godoc
// @Summary 发送排课短信
// @Description 先经匹配服务解析教师，再把排课信息提交短信网关。
// @Description 缺字段、无教师、网关超时、网关拒绝分别返回可区分的错误。
// @Tags 通知
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SendSMSRequest true "短信内容要素"
// @Success 200 {object} util.Response{data=object} "发送成功"
// @Failure 400 {object} util.Response "缺少必填字段"
// @Failure 404 {object} util.Response "未找到教师"
// @Failure 502 {object} util.Response "上游服务失败"
// @Failure 504 {object} util.Response "短信网关超时"
// @Router /api/send_sms [post]
func (c *NotificationController) SendSMS(ctx *gin.Context) {
	var req SendSMSRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "phone_number, skill_name, scheduled_date and student are required")
		return
	}

	providerResp, err := c.NotificationService.SendSessionSMS(ctx.Request.Context(), service.SMSRequest{
		PhoneNumber:   req.PhoneNumber,
		SkillName:     req.SkillName,
		ScheduledDate: req.ScheduledDate,
		Student:       req.Student,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMissingFields):
			monitoring.SMSCounter.WithLabelValues("validation_error").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSkillNotFound), errors.Is(err, util.ErrNoTeachers), errors.Is(err, util.ErrNoSuitableMatch):
			monitoring.SMSCounter.WithLabelValues("no_teacher").Inc()
			util.Error(ctx, 404, "No teacher found for this skill")
		case errors.Is(err, util.ErrMatchUnavailable):
			monitoring.SMSCounter.WithLabelValues("match_unavailable").Inc()
			util.BadGateway(ctx, "Match service unavailable")
		case errors.Is(err, util.ErrSMSTimeout):
			monitoring.SMSCounter.WithLabelValues("timeout").Inc()
			util.GatewayTimeout(ctx, "SMS provider timeout")
		case errors.Is(err, util.ErrSMSDeliveryFailed):
			monitoring.SMSCounter.WithLabelValues("delivery_failed").Inc()
			util.BadGateway(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.SMSCounter.WithLabelValues("sent").Inc()
	util.Success(ctx, gin.H{"provider_response": providerResp})
}
