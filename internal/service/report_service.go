package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReportService struct {
	Reports  ReportStore
	Students StudentStore
	Courses  CourseStore
	Staff    StaffStore
	Course   *CourseService
	Mailer   Mailer
	Now      func() time.Time
}

func NewReportService(reports ReportStore, students StudentStore, courses CourseStore, staff StaffStore, course *CourseService, mailer Mailer) *ReportService {
	return &ReportService{
		Reports:  reports,
		Students: students,
		Courses:  courses,
		Staff:    staff,
		Course:   course,
		Mailer:   mailer,
		Now:      time.Now,
	}
}

type ProgressInput struct {
	ReportID   uint   `json:"reportId" binding:"required"`
	TopicIndex *int   `json:"topicIndex" binding:"required"`
	IsChecked  bool   `json:"isChecked"`
	Date       string `json:"date" binding:"ymd"`
}

type AddTopicInput struct {
	CourseID   uint   `json:"courseId" binding:"required"`
	TopicTitle string `json:"topicTitle" binding:"required"`
}

// RemoveTopicInput reportId 与 courseId 二选一
type RemoveTopicInput struct {
	ReportID   uint `json:"reportId"`
	CourseID   uint `json:"courseId"`
	TopicIndex *int `json:"topicIndex" binding:"required"`
}

func reportErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrReportNotFound
	}
	return err
}

// student 加载学生并检查可见性
func (s *ReportService) student(ctx context.Context, p util.Principal, id uint) (*model.Student, error) {
	student, err := s.Students.FindByID(ctx, id)
	if err != nil {
		return nil, studentErr(err)
	}
	if !p.CanSeeStudent(student) {
		return nil, util.ErrStudentNotFound
	}
	return student, nil
}

// Details 查询报告, 未指定课程时取学生的第一门课程
func (s *ReportService) Details(ctx context.Context, p util.Principal, studentID, courseID uint) (*model.ReportDetail, error) {
	if studentID == 0 && p.IsStudent() {
		studentID = p.ID
	}
	if studentID == 0 {
		return nil, util.NewValidationError("Student not specified")
	}

	student, err := s.student(ctx, p, studentID)
	if err != nil {
		return nil, err
	}

	if courseID == 0 {
		if len(student.Courses) == 0 {
			return nil, util.NewValidationError("Course not specified")
		}
		courseID = student.Courses[0].ID
	}

	report, err := s.Reports.Find(ctx, student.ID, courseID)
	if err != nil {
		return nil, reportErr(err)
	}
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, courseErr(err)
	}
	report.Course = course

	return &model.ReportDetail{
		Student: student,
		Report:  report,
		Percent: CourseProgressFor(course, report).Percent,
	}, nil
}

// UpdateProgress 勾选或取消勾选主题; 勾选时异步通知院系管理员
func (s *ReportService) UpdateProgress(ctx context.Context, p util.Principal, in ProgressInput) (*model.Report, error) {
	report, err := s.Reports.FindByID(ctx, in.ReportID)
	if err != nil {
		return nil, reportErr(err)
	}
	student, err := s.student(ctx, p, report.StudentID)
	if err != nil {
		return nil, err
	}

	if in.TopicIndex == nil || *in.TopicIndex < 0 || *in.TopicIndex >= len(report.Topics) {
		return nil, util.ErrTopicNotFound
	}
	if in.Date != "" && !util.IsDate(in.Date) {
		return nil, util.NewValidationError("Date must be in YYYY-MM-DD format")
	}

	topic := &report.Topics[*in.TopicIndex]
	topic.IsChecked = in.IsChecked
	topic.Date = ""
	if in.IsChecked {
		topic.Date = in.Date
		if topic.Date == "" {
			topic.Date = s.Now().Format(util.DateFormat)
		}
	}

	if err := s.Reports.Save(ctx, report); err != nil {
		return nil, pkgerrors.Wrap(err, "update progress")
	}

	if topic.IsChecked {
		s.notify(ctx, student, topic.TopicTitle, topic.Date)
	}
	return report, nil
}

// notify 收件人为学生的院系管理员, 没有时退回学生本人邮箱
func (s *ReportService) notify(ctx context.Context, student *model.Student, topicTitle, date string) {
	to := mail.Address{Name: student.Name, Address: student.Email}
	if student.FacultyID != 0 {
		if faculty, err := s.Staff.FindByID(ctx, student.FacultyID); err == nil && faculty.Email != "" {
			to = mail.Address{Name: faculty.Name, Address: faculty.Email}
		}
	}
	Dispatch(s.Mailer, TopicCompletedMessage(to, student.Name, topicTitle, date))
}

// AddTopic 向课程目录追加主题, 所有报告随之同步
func (s *ReportService) AddTopic(ctx context.Context, p util.Principal, in AddTopicInput) (*model.Topic, error) {
	return s.Course.AddTopic(ctx, p, in.CourseID, in.TopicTitle)
}

// RemoveTopic 按下标移除主题; 通过 reportId 指定时调用方必须能访问该报告
func (s *ReportService) RemoveTopic(ctx context.Context, p util.Principal, in RemoveTopicInput) (*model.Topic, error) {
	if in.TopicIndex == nil {
		return nil, util.NewValidationError("topicIndex is required")
	}

	courseID := in.CourseID
	if in.ReportID != 0 {
		report, err := s.Reports.FindByID(ctx, in.ReportID)
		if err != nil {
			return nil, reportErr(err)
		}
		if _, err := s.student(ctx, p, report.StudentID); err != nil {
			return nil, err
		}
		courseID = report.CourseID
	}
	if courseID == 0 {
		return nil, util.NewValidationError("reportId or courseId is required")
	}

	return s.Course.RemoveTopic(ctx, p, courseID, *in.TopicIndex)
}
