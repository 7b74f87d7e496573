package controller

import (
	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type StaffController struct {
	StaffService *service.StaffService
}

func NewStaffController(staffService *service.StaffService) *StaffController {
	return &StaffController{StaffService: staffService}
}

// Register godoc
// @Summary 新增员工
// @Description 仅全局管理员可用, 密码至少6位
// @Tags 员工
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.StaffInput true "员工信息"
// @Success 201 {object} util.Response{data=model.Staff}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "Email already exists"
// @Router /api/v1/admin/staff [post]
func (c *StaffController) Register(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.StaffInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Required fields missing")
		return
	}

	staff, err := c.StaffService.Register(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, "Staff member registered successfully", staff)
}

// List godoc
// @Summary 员工列表
// @Tags 员工
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Staff}
// @Router /api/v1/admin/staff [get]
func (c *StaffController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	staff, err := c.StaffService.List(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, staff)
}

// Update godoc
// @Summary 修改员工
// @Description 密码留空表示不修改
// @Tags 员工
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "员工ID"
// @Param body body service.StaffInput true "员工信息"
// @Success 200 {object} util.Response{data=model.Staff}
// @Failure 404 {object} util.Response "Admin not found"
// @Router /api/v1/admin/staff/{id} [put]
func (c *StaffController) Update(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.StaffInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Required fields missing")
		return
	}

	staff, err := c.StaffService.Update(ctx.Request.Context(), p, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Staff member updated successfully", staff)
}
