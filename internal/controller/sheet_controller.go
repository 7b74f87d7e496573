package controller

import (
	"fmt"
	"net/http"

	"github.com/cdmi123/progress-report/internal/service"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/gin-gonic/gin"
)

type SheetController struct {
	SheetService *service.SheetService
}

func NewSheetController(sheetService *service.SheetService) *SheetController {
	return &SheetController{SheetService: sheetService}
}

func (c *SheetController) ids(ctx *gin.Context) (uint, uint, bool) {
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return 0, 0, false
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return 0, 0, false
	}
	return studentID, courseID, true
}

// Download godoc
// @Summary 下载进度表 PDF
// @Tags 进度表
// @Security BearerAuth
// @Produce application/pdf
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Success 200 {file} file
// @Failure 404 {object} util.Response
// @Router /api/v1/pdf/report/{studentId}/{courseId} [get]
func (c *SheetController) Download(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	studentID, courseID, ok := c.ids(ctx)
	if !ok {
		return
	}

	file, err := c.SheetService.Render(ctx.Request.Context(), p, studentID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Data(http.StatusOK, util.MimePDF, file.Data)
}

// Archive godoc
// @Summary 归档进度表
// @Description 渲染后写入对象存储, 返回访问地址
// @Tags 进度表
// @Security BearerAuth
// @Produce json
// @Param studentId path int true "学生ID"
// @Param courseId path int true "课程ID"
// @Success 201 {object} util.Response
// @Router /api/v1/pdf/report/{studentId}/{courseId}/archive [post]
func (c *SheetController) Archive(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	studentID, courseID, ok := c.ids(ctx)
	if !ok {
		return
	}

	url, err := c.SheetService.Archive(ctx.Request.Context(), p, studentID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, "Sheet archived successfully", gin.H{"url": url})
}
