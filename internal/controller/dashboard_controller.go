package controller

import (
	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 管理端统计
// @Description 学生数按院系范围统计, 图表为每门课程的在读人数
// @Tags 仪表盘
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=model.DashboardStats}
// @Router /api/v1/admin/stats [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	stats, err := c.DashboardService.Stats(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 学生仪表盘
// @Description 当前学生的课程及完成百分比
// @Tags 仪表盘
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=model.StudentDashboard}
// @Router /api/v1/student/dashboard [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	dashboard, err := c.DashboardService.StudentDashboard(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
