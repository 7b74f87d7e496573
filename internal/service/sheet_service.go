package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/sheet"
	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/logger"
	"github.com/cdmi123/progress-report/pkg/monitoring"
	"github.com/cdmi123/progress-report/pkg/tracing"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SheetService struct {
	Students StudentStore
	Courses  CourseStore
	Reports  ReportStore
	Renderer *sheet.Renderer
	Storage  *StorageService
}

func NewSheetService(students StudentStore, courses CourseStore, reports ReportStore, renderer *sheet.Renderer, storage *StorageService) *SheetService {
	return &SheetService{
		Students: students,
		Courses:  courses,
		Reports:  reports,
		Renderer: renderer,
		Storage:  storage,
	}
}

// SheetFile 渲染好的进度表
type SheetFile struct {
	Filename string
	Data     []byte
	Pages    int
}

// Render 学生或课程不存在时返回未找到错误且不输出任何内容; 没有报告时输出空表
func (s *SheetService) Render(ctx context.Context, p util.Principal, studentID, courseID uint) (*SheetFile, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SheetService.Render")
	defer span.End()
	span.SetAttributes(attribute.Int("student.id", int(studentID)), attribute.Int("course.id", int(courseID)))

	student, err := s.Students.FindByID(ctx, studentID)
	if err != nil {
		return nil, studentErr(err)
	}
	if !p.CanSeeStudent(student) {
		return nil, util.ErrStudentNotFound
	}
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, courseErr(err)
	}

	var topics []model.TopicProgress
	report, err := s.Reports.Find(ctx, student.ID, course.ID)
	switch {
	case err == nil:
		topics = report.Topics
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(err, "load report")
	}

	var buf bytes.Buffer
	result, err := s.Renderer.Render(&buf, sheet.Document{
		StudentName:   student.Name,
		CourseName:    course.Name,
		Topics:        topics,
		SignatureData: student.SignatureData,
	})
	if err != nil {
		monitoring.SheetsRendered.WithLabelValues("failed").Inc()
		return nil, pkgerrors.Wrap(err, "render sheet")
	}
	monitoring.SheetsRendered.WithLabelValues("ok").Inc()

	if student.SignatureData != "" && !result.Signature {
		logger.Log.Warn("Signature could not be decoded, using placeholder", zap.Uint("studentID", student.ID))
	}

	return &SheetFile{
		Filename: sheet.Filename(student.Name, course.Name),
		Data:     buf.Bytes(),
		Pages:    result.Pages,
	}, nil
}

// Archive 渲染并保存到对象存储, 返回访问地址
func (s *SheetService) Archive(ctx context.Context, p util.Principal, studentID, courseID uint) (string, error) {
	if !p.IsStaff() {
		return "", util.ErrPermissionDenied
	}
	file, err := s.Render(ctx, p, studentID, courseID)
	if err != nil {
		return "", err
	}
	url, err := s.Storage.Archive(ctx, studentID, file.Filename, util.MimePDF, file.Data)
	if err != nil {
		return "", pkgerrors.Wrap(err, "archive sheet")
	}
	return url, nil
}
