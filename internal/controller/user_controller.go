package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// UpdateProfileRequest 资料更新请求，字段均可选
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Proficiency string   `json:"proficiency" binding:"omitempty,oneof=beginner intermediate expert"`
	Skills      []string `json:"skills"`
}

// UpdateProfile godoc
// @Summary 更新当前用户资料
// @Description 更新姓名、手机号、熟练度；skills 传入时整体替换用户技能列表
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "要更新的字段"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, service.ProfileUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Proficiency: req.Proficiency,
		Skills:      req.Skills,
	})
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"user": user})
}

// UploadAvatar godoc
// @Summary 上传用户头像
// @Description 接收 multipart 文件，存入配置的存储后端并更新用户头像地址
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		util.BadRequest(ctx, "unsupported image format")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%s%s", model.GenerateUUID(), ext)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.SetAvatar(claims.UserID, url); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

// TransferXPRequest XP 转账请求
// swagger:model TransferXPRequest
type TransferXPRequest struct {
	ToUserID uint `json:"to_user_id" binding:"required"`
	Amount   int  `json:"amount" binding:"required,gt=0"`
}

// TransferXP godoc
// @Summary 向其他用户转让 XP
// @Description 扣减当前用户 XP 并记入对方账户，余额不足或转给自己时报错
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body TransferXPRequest true "收款人与金额"
// @Success 200 {object} util.Response{data=model.XPTransaction}
// @Failure 400 {object} util.Response "余额不足或参数非法"
// @Failure 404 {object} util.Response "收款用户不存在"
// @Router /api/transfer_xp [post]
func (c *UserController) TransferXP(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TransferXPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "to_user_id and a positive amount are required")
		return
	}

	txn, err := c.UserService.TransferXP(claims.UserID, req.ToUserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSelfTransfer):
			util.BadRequest(ctx, "cannot transfer XP to yourself")
		case errors.Is(err, util.ErrInsufficientXP):
			util.BadRequest(ctx, "insufficient XP balance")
		case errors.Is(err, util.ErrMissingFields):
			util.BadRequest(ctx, "amount must be positive")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"transaction": txn})
}

// ListTransactions godoc
// @Summary 查询当前用户的 XP 流水
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/xp/transactions [get]
func (c *UserController) ListTransactions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	txns, err := c.UserService.ListTransactions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"transactions": txns})
}

// Leaderboard godoc
// @Summary XP 排行榜
// @Description 按 XP 降序返回前 N 名用户，默认 10 名
// @Tags 用户
// @Produce  json
// @Param   limit query int false "返回条数" default(10)
// @Success 200 {object} util.Response{data=object}
// @Router /api/leaderboard [get]
func (c *UserController) Leaderboard(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit <= 0 || limit > 100 {
			util.BadRequest(ctx, "limit must be between 1 and 100")
			return
		}
	}

	entries, err := c.UserService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"leaderboard": entries})
}
