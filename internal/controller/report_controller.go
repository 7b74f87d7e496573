package controller

import (
	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Details godoc
// @Summary 报告详情
// @Description 学生默认查询自己; 未指定课程时取第一门已选课程
// @Tags 报告
// @Security BearerAuth
// @Produce json
// @Param studentId query int false "学生ID"
// @Param courseId query int false "课程ID"
// @Success 200 {object} util.Response{data=model.ReportDetail}
// @Failure 404 {object} util.Response "Report not found"
// @Router /api/v1/reports/details [get]
func (c *ReportController) Details(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	studentID, ok := queryID(ctx, "studentId")
	if !ok {
		return
	}
	courseID, ok := queryID(ctx, "courseId")
	if !ok {
		return
	}

	detail, err := c.ReportService.Details(ctx.Request.Context(), p, studentID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// UpdateProgress godoc
// @Summary 勾选或取消主题
// @Description 勾选时日期缺省为当天, 取消时清空日期
// @Tags 报告
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.ProgressInput true "进度"
// @Success 200 {object} util.Response{data=model.Report}
// @Router /api/v1/reports/update-progress [post]
func (c *ReportController) UpdateProgress(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.ProgressInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid progress update")
		return
	}

	report, err := c.ReportService.UpdateProgress(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessMsg(ctx, "Topic progress updated successfully", report)
}

// AddTopic godoc
// @Summary 新增主题
// @Description 追加到课程并同步到所有报告, 记录添加者
// @Tags 报告
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.AddTopicInput true "主题"
// @Success 201 {object} util.Response{data=model.Topic}
// @Failure 409 {object} util.Response "Topic already exists"
// @Router /api/v1/reports/add-topic [post]
func (c *ReportController) AddTopic(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.AddTopicInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Course and topic title are required")
		return
	}

	topic, err := c.ReportService.AddTopic(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, "Topic added successfully", topic)
}

// RemoveTopic godoc
// @Summary 按序号移除主题
// @Description 只能移除学生添加的主题
// @Tags 报告
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.RemoveTopicInput true "主题位置"
// @Success 200 {object} util.Response{data=model.Topic}
// @Failure 403 {object} util.Response
// @Router /api/v1/reports/remove-topic [post]
func (c *ReportController) RemoveTopic(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.RemoveTopicInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Topic index is required")
		return
	}
	if req.ReportID == 0 && req.CourseID == 0 {
		util.BadRequest(ctx, "reportId or courseId is required")
		return
	}

	topic, err := c.ReportService.RemoveTopic(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessMsg(ctx, "Topic removed successfully", topic)
}
