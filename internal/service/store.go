package service

import (
	"context"
	"time"

	"github.com/cdmi123/progress-report/internal/model"
)

// 以下接口由 repository 包 (gorm) 与 repository/memory 包实现。
// 未找到记录时返回 gorm.ErrRecordNotFound, 唯一键冲突时返回 gorm.ErrDuplicatedKey。

type StaffStore interface {
	Create(ctx context.Context, staff *model.Staff) error
	FindByID(ctx context.Context, id uint) (*model.Staff, error)
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
	List(ctx context.Context) ([]model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Count(ctx context.Context) (int64, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type StudentStore interface {
	// Create 同时写入 Courses 关联
	Create(ctx context.Context, student *model.Student) error
	// FindByID 预加载 Courses
	FindByID(ctx context.Context, id uint) (*model.Student, error)
	FindAllByContact(ctx context.Context, contact string) ([]model.Student, error)
	List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)
	// Update 用 student.Courses 替换已选课程
	Update(ctx context.Context, student *model.Student) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	// RemoveCourse 从所有学生的已选课程中移除该课程
	RemoveCourse(ctx context.Context, courseID uint) error
	// EnrolledIDs 返回选修该课程的学生ID
	EnrolledIDs(ctx context.Context, courseID uint) ([]uint, error)
	Count(ctx context.Context, filter model.StudentFilter) (int64, error)
}

type ReportStore interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uint) (*model.Report, error)
	Find(ctx context.Context, studentID, courseID uint) (*model.Report, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Report, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Report, error)
	Save(ctx context.Context, report *model.Report) error
	DeleteByStudent(ctx context.Context, studentID uint) error
	DeleteByCourse(ctx context.Context, courseID uint) error
	Count(ctx context.Context) (int64, error)
}

// TokenStore 记录已注销的令牌
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
