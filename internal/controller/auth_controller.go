package controller

import (
	"errors"
	"net/http"

	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// AdminLoginRequest 管理员登录
// swagger:model AdminLoginRequest
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StudentLoginRequest 学生使用联系电话登录
// swagger:model StudentLoginRequest
type StudentLoginRequest struct {
	Contact  string `json:"contact" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin godoc
// @Summary 管理员登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body AdminLoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response "Invalid email or password"
// @Failure 403 {object} util.Response "账号已被禁用"
// @Router /api/v1/auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Email and password are required")
		return
	}

	result, err := c.AuthService.AdminLogin(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Admin login successful", result)
}

// StudentLogin godoc
// @Summary 学生登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body StudentLoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Contact and password are required")
		return
	}

	result, err := c.AuthService.StudentLogin(ctx.Request.Context(), req.Contact, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, "Invalid contact or password")
			return
		}
		util.HandleError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Student login successful", result)
}

// Logout godoc
// @Summary 注销当前令牌
// @Tags 认证
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetClaims(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Logout successful", nil)
}
