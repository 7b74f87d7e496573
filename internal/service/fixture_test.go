package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cdmi123/progress-report/internal/config"
	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/repository/memory"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// recordingMailer 收集发送的邮件, err 非空时在记录后返回该错误
type recordingMailer struct {
	sent chan EmailMessage
	err  error
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan EmailMessage, 16)}
}

func (m *recordingMailer) Provider() string { return "recording" }

func (m *recordingMailer) Send(_ context.Context, msg EmailMessage) error {
	m.sent <- msg
	return m.err
}

func (m *recordingMailer) wait(t *testing.T) EmailMessage {
	t.Helper()
	select {
	case msg := <-m.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no email sent")
	}
	return EmailMessage{}
}

// failingReports 对指定报告的保存返回错误
type failingReports struct {
	*memory.ReportRepository
	failID uint
}

var errSaveFailed = errors.New("save failed")

func (r *failingReports) Save(ctx context.Context, report *model.Report) error {
	if report.ID == r.failID {
		return errSaveFailed
	}
	return r.ReportRepository.Save(ctx, report)
}

type fixture struct {
	ctx      context.Context
	staff    *memory.StaffRepository
	courses  *memory.CourseRepository
	students *memory.StudentRepository
	reports  *memory.ReportRepository
	tokens   *memory.TokenRepository

	sync      *SyncService
	course    *CourseService
	student   *StudentService
	report    *ReportService
	auth      *AuthService
	staffSvc  *StaffService
	dashboard *DashboardService
	mailer    *recordingMailer

	admin util.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	f := &fixture{
		ctx:      context.Background(),
		staff:    memory.NewStaffRepository(db),
		courses:  memory.NewCourseRepository(db),
		students: memory.NewStudentRepository(db),
		reports:  memory.NewReportRepository(db),
		tokens:   memory.NewTokenRepository(db),
		mailer:   newRecordingMailer(),
	}

	f.sync = NewSyncService(f.courses, f.students, f.reports)
	f.course = NewCourseService(f.courses, f.students, f.sync)
	f.course.Now = func() time.Time { return fixedNow }
	f.student = NewStudentService(f.students, f.courses, f.staff, f.reports, f.sync)
	f.report = NewReportService(f.reports, f.students, f.courses, f.staff, f.course, f.mailer)
	f.report.Now = func() time.Time { return fixedNow }
	f.staffSvc = NewStaffService(f.staff)
	f.dashboard = NewDashboardService(f.staff, f.students, f.courses, f.reports)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	f.auth = NewAuthService(f.staff, f.students, f.tokens, cfg)

	root, err := f.staffSvc.Bootstrap(f.ctx, StaffInput{
		Name: "Root", Email: "root@test.io", Password: "secret1", Role: model.RoleGlobal,
	})
	require.NoError(t, err)
	f.admin = util.StaffPrincipal(root)
	return f
}

func (f *fixture) newFaculty(t *testing.T, email string) util.Principal {
	t.Helper()
	staff, err := f.staffSvc.Register(f.ctx, f.admin, StaffInput{
		Name: "Faculty " + email, Email: email, Password: "secret1", Role: model.RoleFaculty,
	})
	require.NoError(t, err)
	return util.StaffPrincipal(staff)
}

func (f *fixture) newCourse(t *testing.T, name string, titles ...string) *model.Course {
	t.Helper()
	course, err := f.course.Create(f.ctx, f.admin, CourseInput{Name: name, Topics: TopicTitles(titles...)})
	require.NoError(t, err)
	return course
}

func (f *fixture) newStudent(t *testing.T, p util.Principal, regNo string, courseIDs ...uint) *model.Student {
	t.Helper()
	facultyID := uint(0)
	if p.IsGlobalStaff() {
		facultyID = p.ID
	}
	student, err := f.student.Create(f.ctx, p, StudentInput{
		Name:      "Student " + regNo,
		Email:     regNo + "@test.io",
		Contact:   "555-" + regNo,
		RegNo:     regNo,
		FacultyID: facultyID,
		Password:  "secret1",
		Courses:   courseIDs,
	})
	require.NoError(t, err)
	return student
}

func (f *fixture) reportOf(t *testing.T, studentID, courseID uint) *model.Report {
	t.Helper()
	report, err := f.reports.Find(f.ctx, studentID, courseID)
	require.NoError(t, err)
	return report
}

func titlesOf(topics []model.TopicProgress) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = t.TopicTitle
	}
	return out
}

func intPtr(i int) *int { return &i }
