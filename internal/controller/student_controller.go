package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
	RosterService  *service.RosterService
}

func NewStudentController(studentService *service.StudentService, rosterService *service.RosterService) *StudentController {
	return &StudentController{StudentService: studentService, RosterService: rosterService}
}

// StatusRequest 修改学生状态
// swagger:model StatusRequest
type StatusRequest struct {
	Status string `json:"status" binding:"required,studentstatus"`
}

// Create godoc
// @Summary 新增学生
// @Description 为每门已选课程创建空白报告
// @Tags 学生
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.StudentInput true "学生信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "Email or registration number already exists"
// @Router /api/v1/admin/students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.StudentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "All required fields must be filled")
		return
	}

	student, err := c.StudentService.Create(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, "Student added successfully", gin.H{"id": student.ID, "name": student.Name})
}

// List godoc
// @Summary 学生列表
// @Description 含每门课程的完成百分比; 院系管理员只能看到本院系学生
// @Tags 学生
// @Security BearerAuth
// @Produce json
// @Param status query string false "Running|Completed|All, 默认 Running"
// @Success 200 {object} util.Response{data=[]model.StudentSummary}
// @Router /api/v1/admin/students [get]
func (c *StudentController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	students, err := c.StudentService.List(ctx.Request.Context(), p, ctx.Query("status"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// Export godoc
// @Summary 导出学生进度表格
// @Tags 学生
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Running|Completed|All"
// @Success 200 {file} file
// @Router /api/v1/admin/students/export [get]
func (c *StudentController) Export(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	status := ctx.Query("status")
	var buf bytes.Buffer
	if _, err := c.RosterService.Export(ctx.Request.Context(), p, status, &buf); err != nil {
		util.HandleError(ctx, err)
		return
	}

	filename := service.RosterFilename(status, time.Now())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, buf.Bytes())
}

// Update godoc
// @Summary 修改学生
// @Description 新增的课程会补齐报告
// @Tags 学生
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "学生ID"
// @Param body body service.StudentInput true "学生信息"
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response "Student not found"
// @Router /api/v1/admin/students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.StudentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Required fields are missing")
		return
	}

	student, err := c.StudentService.Update(ctx.Request.Context(), p, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Student updated successfully", student)
}

// Delete godoc
// @Summary 删除学生及其报告
// @Tags 学生
// @Security BearerAuth
// @Produce json
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.StudentService.Delete(ctx.Request.Context(), p, id); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Student deleted successfully", nil)
}

// SetStatus godoc
// @Summary 修改学生状态
// @Tags 学生
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "学生ID"
// @Param body body StatusRequest true "Running 或 Completed"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/students/{id}/status [patch]
func (c *StudentController) SetStatus(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid status")
		return
	}

	if err := c.StudentService.SetStatus(ctx.Request.Context(), p, id, req.Status); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.SuccessMsg(ctx, "Student status updated to "+req.Status, gin.H{"status": req.Status})
}
