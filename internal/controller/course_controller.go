package controller

import (
	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// List godoc
// @Summary 课程列表
// @Tags 课程
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/v1/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	courses, err := c.CourseService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary 课程详情
// @Tags 课程
// @Security BearerAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/v1/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Create godoc
// @Summary 新增课程
// @Description topics 可以是标题字符串数组或 {id,title} 对象数组
// @Tags 课程
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response "Topic already exists"
// @Router /api/v1/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Course name is required")
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, "Course added successfully", course)
}

// Update godoc
// @Summary 修改课程
// @Description 改名、新增与排序同步到所有报告; 移除管理员添加的主题会被拒绝
// @Tags 课程
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param body body service.CourseInput true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response "only topics added by students can be removed"
// @Router /api/v1/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Course name is required")
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), p, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessMsg(ctx, "Course updated successfully", course)
}

// Delete godoc
// @Summary 删除课程及其报告
// @Tags 课程
// @Security BearerAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.Delete(ctx.Request.Context(), p, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessMsg(ctx, "Course deleted successfully", nil)
}
