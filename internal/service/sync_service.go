package service

import (
	"context"
	"errors"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/pkg/logger"
	"github.com/cdmi123/progress-report/pkg/monitoring"
	"github.com/cdmi123/progress-report/pkg/tracing"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 同步触发来源, 用作指标标签
const (
	TriggerCourseEdit = "course_edit"
	TriggerAddTopic   = "add_topic"
	TriggerRemove     = "remove_topic"
	TriggerEnroll     = "enroll"
	TriggerDelete     = "delete"
	TriggerReconcile  = "reconcile"
)

// SyncService 保持各学生报告与课程主题目录一致。
// 单个报告保存失败只记录日志并继续, 不影响调用方结果。
type SyncService struct {
	Courses  CourseStore
	Students StudentStore
	Reports  ReportStore
}

func NewSyncService(courses CourseStore, students StudentStore, reports ReportStore) *SyncService {
	return &SyncService{Courses: courses, Students: students, Reports: reports}
}

// SyncCourse 将课程的主题目录同步到该课程的所有报告, 返回更新数
func (s *SyncService) SyncCourse(ctx context.Context, course *model.Course, trigger string) int {
	ctx, span := tracing.Tracer.Start(ctx, "SyncService.SyncCourse")
	defer span.End()
	span.SetAttributes(attribute.Int("course.id", int(course.ID)), attribute.String("sync.trigger", trigger))

	reports, err := s.Reports.ListByCourse(ctx, course.ID)
	if err != nil {
		logger.Log.Error("Failed to load reports for course sync",
			zap.Uint("courseID", course.ID), zap.Error(err))
		monitoring.SyncReports.WithLabelValues(trigger, "failed").Inc()
		return 0
	}

	updated := 0
	for i := range reports {
		report := &reports[i]
		topics, changed := ReconcileTopics(course.Topics, report.Topics)
		if !changed {
			monitoring.SyncReports.WithLabelValues(trigger, "unchanged").Inc()
			continue
		}
		report.Topics = topics
		if err := s.Reports.Save(ctx, report); err != nil {
			logger.Log.Error("Failed to sync report",
				zap.Uint("reportID", report.ID),
				zap.Uint("courseID", course.ID),
				zap.Error(err))
			monitoring.SyncReports.WithLabelValues(trigger, "failed").Inc()
			continue
		}
		updated++
		monitoring.SyncReports.WithLabelValues(trigger, "updated").Inc()
	}

	span.SetAttributes(attribute.Int("sync.updated", updated))
	return updated
}

// EnsureReports 为学生尚无报告的已选课程创建空白报告, 返回创建数
func (s *SyncService) EnsureReports(ctx context.Context, studentID uint, courseIDs []uint) int {
	ctx, span := tracing.Tracer.Start(ctx, "SyncService.EnsureReports")
	defer span.End()

	courses, err := s.Courses.FindByIDs(ctx, courseIDs)
	if err != nil {
		logger.Log.Error("Failed to load courses for enrollment",
			zap.Uint("studentID", studentID), zap.Error(err))
		monitoring.SyncReports.WithLabelValues(TriggerEnroll, "failed").Inc()
		return 0
	}

	created := 0
	for i := range courses {
		course := &courses[i]
		_, err := s.Reports.Find(ctx, studentID, course.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error("Failed to look up report",
				zap.Uint("studentID", studentID), zap.Uint("courseID", course.ID), zap.Error(err))
			monitoring.SyncReports.WithLabelValues(TriggerEnroll, "failed").Inc()
			continue
		}

		report := &model.Report{
			StudentID: studentID,
			CourseID:  course.ID,
			Topics:    NewReportTopics(course.Topics),
		}
		if err := s.Reports.Create(ctx, report); err != nil {
			logger.Log.Error("Failed to create report",
				zap.Uint("studentID", studentID), zap.Uint("courseID", course.ID), zap.Error(err))
			monitoring.SyncReports.WithLabelValues(TriggerEnroll, "failed").Inc()
			continue
		}
		created++
		monitoring.SyncReports.WithLabelValues(TriggerEnroll, "created").Inc()
	}
	return created
}

// DeleteStudentReports 删除学生的全部报告
func (s *SyncService) DeleteStudentReports(ctx context.Context, studentID uint) error {
	if err := s.Reports.DeleteByStudent(ctx, studentID); err != nil {
		return pkgerrors.Wrapf(err, "delete reports of student %d", studentID)
	}
	monitoring.SyncReports.WithLabelValues(TriggerDelete, "deleted").Inc()
	return nil
}

// DeleteCourseReports 删除课程的全部报告, 并从所有学生的已选课程中移除该课程
func (s *SyncService) DeleteCourseReports(ctx context.Context, courseID uint) error {
	if err := s.Reports.DeleteByCourse(ctx, courseID); err != nil {
		return pkgerrors.Wrapf(err, "delete reports of course %d", courseID)
	}
	if err := s.Students.RemoveCourse(ctx, courseID); err != nil {
		return pkgerrors.Wrapf(err, "remove course %d from enrollments", courseID)
	}
	monitoring.SyncReports.WithLabelValues(TriggerDelete, "deleted").Inc()
	return nil
}

// ReconcileAll 全量修复: 同步所有课程的报告, 并为已选课程补齐缺失的报告。可重复执行。
func (s *SyncService) ReconcileAll(ctx context.Context) (*model.ReconcileResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SyncService.ReconcileAll")
	defer span.End()

	courses, err := s.Courses.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list courses")
	}

	result := &model.ReconcileResult{Courses: len(courses)}
	for i := range courses {
		course := &courses[i]
		result.ReportsUpdated += s.SyncCourse(ctx, course, TriggerReconcile)

		studentIDs, err := s.Students.EnrolledIDs(ctx, course.ID)
		if err != nil {
			logger.Log.Error("Failed to list enrolled students",
				zap.Uint("courseID", course.ID), zap.Error(err))
			result.Failures++
			continue
		}
		for _, sid := range studentIDs {
			result.ReportsCreated += s.EnsureReports(ctx, sid, []uint{course.ID})
		}
	}

	logger.Log.Info("Reconcile finished",
		zap.Int("courses", result.Courses),
		zap.Int("reportsUpdated", result.ReportsUpdated),
		zap.Int("reportsCreated", result.ReportsCreated),
		zap.Int("failures", result.Failures))
	return result, nil
}
