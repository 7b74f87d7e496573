package service

import (
	"context"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"

	pkgerrors "github.com/pkg/errors"
)

type DashboardService struct {
	Staff    StaffStore
	Students StudentStore
	Courses  CourseStore
	Reports  ReportStore
}

func NewDashboardService(staff StaffStore, students StudentStore, courses CourseStore, reports ReportStore) *DashboardService {
	return &DashboardService{
		Staff:    staff,
		Students: students,
		Courses:  courses,
		Reports:  reports,
	}
}

// Stats 管理端统计; 院系管理员的学生数与图表只含本院系学生
func (s *DashboardService) Stats(ctx context.Context, p util.Principal) (*model.DashboardStats, error) {
	if !p.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	if _, err := s.Staff.FindByID(ctx, p.ID); err != nil {
		return nil, staffErr(err)
	}

	filter := ScopeFilter(p, model.StudentStatusAll)
	stats := &model.DashboardStats{}
	var err error
	if stats.TotalStudents, err = s.Students.Count(ctx, filter); err != nil {
		return nil, pkgerrors.Wrap(err, "count students")
	}
	if stats.TotalCourses, err = s.Courses.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "count courses")
	}
	if stats.TotalReports, err = s.Reports.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "count reports")
	}
	if stats.TotalAdmins, err = s.Staff.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "count staff")
	}

	// 图表: 每门课程的在读学生数
	students, err := s.Students.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list students")
	}
	enrolled := make(map[uint]int64)
	for _, st := range students {
		for _, c := range st.Courses {
			enrolled[c.ID]++
		}
	}
	courses, err := s.Courses.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list courses")
	}
	stats.ChartLabels = make([]string, 0, len(courses))
	stats.ChartData = make([]int64, 0, len(courses))
	for _, c := range courses {
		stats.ChartLabels = append(stats.ChartLabels, c.Name)
		stats.ChartData = append(stats.ChartData, enrolled[c.ID])
	}
	return stats, nil
}

// StudentDashboard 学生本人已选课程及进度
func (s *DashboardService) StudentDashboard(ctx context.Context, p util.Principal) (*model.StudentDashboard, error) {
	if !p.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	student, err := s.Students.FindByID(ctx, p.ID)
	if err != nil {
		return nil, studentErr(err)
	}
	reports, err := s.Reports.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list reports")
	}
	return &model.StudentDashboard{
		Student: student,
		Courses: progressByCourse(student.Courses, reports),
	}, nil
}
