package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/logger"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentService struct {
	Students StudentStore
	Courses  CourseStore
	Staff    StaffStore
	Reports  ReportStore
	Sync     *SyncService
}

func NewStudentService(students StudentStore, courses CourseStore, staff StaffStore, reports ReportStore, sync *SyncService) *StudentService {
	return &StudentService{Students: students, Courses: courses, Staff: staff, Reports: reports, Sync: sync}
}

type StudentInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Contact       string `json:"contact" binding:"required"`
	RegNo         string `json:"regNo" binding:"required"`
	FacultyID     uint   `json:"facultyId"`
	StartDate     string `json:"startDate" binding:"ymd"`
	EndDate       string `json:"endDate" binding:"ymd"`
	Password      string `json:"password"`
	SignatureData string `json:"signatureData"`
	Courses       []uint `json:"courses"`
}

func studentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrStudentNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrStudentExists
	}
	return err
}

// visibleStudent 加载学生并校验调用方是否可见, 不可见时按不存在处理
func (s *StudentService) visibleStudent(ctx context.Context, p util.Principal, id uint) (*model.Student, error) {
	student, err := s.Students.FindByID(ctx, id)
	if err != nil {
		return nil, studentErr(err)
	}
	if !p.CanSeeStudent(student) {
		return nil, util.ErrStudentNotFound
	}
	return student, nil
}

// resolveFaculty 院系管理员只能把学生分配给自己
func (s *StudentService) resolveFaculty(ctx context.Context, p util.Principal, facultyID uint) (uint, error) {
	if !p.IsGlobalStaff() {
		return p.ID, nil
	}
	if facultyID == 0 {
		return 0, util.NewValidationError("Invalid faculty selection")
	}
	if _, err := s.Staff.FindByID(ctx, facultyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.NewValidationError("Invalid faculty selection")
		}
		return 0, err
	}
	return facultyID, nil
}

func (s *StudentService) resolveCourses(ctx context.Context, ids []uint) ([]model.Course, error) {
	if len(ids) == 0 {
		return nil, util.NewValidationError("At least one course must be selected")
	}
	courses, err := s.Courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(courses) != len(uniqueIDs(ids)) {
		return nil, util.NewValidationError("Invalid course selection")
	}
	return courses, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func hashPassword(password string) (string, error) {
	if len(password) < util.MinPasswordLength {
		return "", util.NewValidationError("Password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (in *StudentInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Contact = strings.TrimSpace(in.Contact)
	in.RegNo = strings.TrimSpace(in.RegNo)
}

// Create 新增学生并为每门已选课程创建空白报告
func (s *StudentService) Create(ctx context.Context, p util.Principal, in StudentInput) (*model.Student, error) {
	if !p.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	in.trim()
	if in.Name == "" || in.Email == "" || in.Contact == "" || in.RegNo == "" || in.Password == "" {
		return nil, util.NewValidationError("All required fields must be filled")
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	courses, err := s.resolveCourses(ctx, in.Courses)
	if err != nil {
		return nil, err
	}
	facultyID, err := s.resolveFaculty(ctx, p, in.FacultyID)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Name:          in.Name,
		Email:         in.Email,
		Contact:       in.Contact,
		RegNo:         in.RegNo,
		FacultyID:     facultyID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Password:      hashed,
		SignatureData: strings.TrimSpace(in.SignatureData),
		Status:        model.StudentRunning,
		Courses:       courses,
	}
	if err := s.Students.Create(ctx, student); err != nil {
		return nil, studentErr(err)
	}

	created := s.Sync.EnsureReports(ctx, student.ID, student.CourseIDs())
	logger.Log.Info("Student created",
		zap.Uint("studentID", student.ID),
		zap.Uint("facultyID", facultyID),
		zap.Int("reports", created))
	return student, nil
}

// Update 修改学生信息与选课; 新增课程补齐报告, 退选课程的报告保留
func (s *StudentService) Update(ctx context.Context, p util.Principal, id uint, in StudentInput) (*model.Student, error) {
	if !p.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	in.trim()
	if in.Name == "" || in.Email == "" || in.Contact == "" || in.RegNo == "" {
		return nil, util.NewValidationError("Required fields are missing")
	}

	student, err := s.visibleStudent(ctx, p, id)
	if err != nil {
		return nil, err
	}
	courses, err := s.resolveCourses(ctx, in.Courses)
	if err != nil {
		return nil, err
	}
	facultyID := student.FacultyID
	if p.IsGlobalStaff() && in.FacultyID != 0 {
		if facultyID, err = s.resolveFaculty(ctx, p, in.FacultyID); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(in.Password) != "" {
		hashed, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		student.Password = hashed
	}
	if sig := strings.TrimSpace(in.SignatureData); sig != "" {
		student.SignatureData = sig
	}

	student.Name = in.Name
	student.Email = in.Email
	student.Contact = in.Contact
	student.RegNo = in.RegNo
	student.FacultyID = facultyID
	student.StartDate = in.StartDate
	student.EndDate = in.EndDate
	student.Courses = courses
	if err := s.Students.Update(ctx, student); err != nil {
		return nil, studentErr(err)
	}

	s.Sync.EnsureReports(ctx, student.ID, student.CourseIDs())
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, p util.Principal, id uint) error {
	if !p.IsStaff() {
		return util.ErrPermissionDenied
	}
	if _, err := s.visibleStudent(ctx, p, id); err != nil {
		return err
	}
	if err := s.Students.Delete(ctx, id); err != nil {
		return studentErr(err)
	}
	if err := s.Sync.DeleteStudentReports(ctx, id); err != nil {
		logger.Log.Error("Failed to delete reports of student", zap.Uint("studentID", id), zap.Error(err))
	}
	return nil
}

func (s *StudentService) SetStatus(ctx context.Context, p util.Principal, id uint, status string) error {
	if !p.IsStaff() {
		return util.ErrPermissionDenied
	}
	if !model.IsValidStudentStatus(status) {
		return util.NewValidationError("Invalid status")
	}
	if _, err := s.visibleStudent(ctx, p, id); err != nil {
		return err
	}
	return studentErr(s.Students.UpdateStatus(ctx, id, status))
}

func (s *StudentService) Get(ctx context.Context, p util.Principal, id uint) (*model.Student, error) {
	return s.visibleStudent(ctx, p, id)
}

// ScopeFilter 院系管理员只能看到本院系学生
func ScopeFilter(p util.Principal, status string) model.StudentFilter {
	filter := model.StudentFilter{Status: status}
	if !p.IsGlobalStaff() {
		filter.FacultyID = p.ID
	}
	return filter
}

// List 学生列表及各课程完成百分比, status 默认 Running
func (s *StudentService) List(ctx context.Context, p util.Principal, status string) ([]model.StudentSummary, error) {
	if !p.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	if status == "" {
		status = model.StudentRunning
	}
	if status != model.StudentStatusAll && !model.IsValidStudentStatus(status) {
		return nil, util.NewValidationError("Invalid status")
	}

	students, err := s.Students.List(ctx, ScopeFilter(p, status))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list students")
	}

	summaries := make([]model.StudentSummary, 0, len(students))
	for i := range students {
		student := students[i]
		reports, err := s.Reports.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "list reports of student %d", student.ID)
		}
		summaries = append(summaries, model.StudentSummary{
			Student:        student,
			Status:         student.EffectiveStatus(),
			CourseProgress: progressByCourse(student.Courses, reports),
		})
	}
	return summaries, nil
}
