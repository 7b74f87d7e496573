package service

import (
	"math"

	"github.com/cdmi123/progress-report/internal/model"
)

// Percent round(100*checked/total), total 为 0 时返回 0, 结果限制在 [0,100]
func Percent(checked, total int) int {
	if total <= 0 || checked <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(checked) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

// CourseProgressFor 以课程当前主题数为分母; 报告不存在时为 0%
func CourseProgressFor(course *model.Course, report *model.Report) model.CourseProgress {
	cp := model.CourseProgress{
		CourseID:   course.ID,
		CourseName: course.Name,
		Total:      len(course.Topics),
	}
	if report != nil {
		cp.Checked = report.CheckedCount()
	}
	cp.Percent = Percent(cp.Checked, cp.Total)
	return cp
}

// progressByCourse 按学生已选课程顺序计算进度
func progressByCourse(courses []model.Course, reports []model.Report) []model.CourseProgress {
	byCourse := make(map[uint]*model.Report, len(reports))
	for i := range reports {
		byCourse[reports[i].CourseID] = &reports[i]
	}

	out := make([]model.CourseProgress, 0, len(courses))
	for i := range courses {
		out = append(out, CourseProgressFor(&courses[i], byCourse[courses[i].ID]))
	}
	return out
}
