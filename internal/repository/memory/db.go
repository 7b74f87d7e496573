// Package memory 提供进程内存储实现, 用于 database.driver=memory 与测试。
// 行为与 gorm 仓库保持一致: 未找到返回 gorm.ErrRecordNotFound, 唯一键冲突返回 gorm.ErrDuplicatedKey。
package memory

import (
	"sync"
	"time"

	"github.com/cdmi123/progress-report/internal/model"
)

type DB struct {
	mutex sync.RWMutex

	staff    map[uint]*model.Staff
	courses  map[uint]*model.Course
	students map[uint]*model.Student
	reports  map[uint]*model.Report
	// student_courses
	enrollments map[uint][]uint
	revoked     map[string]time.Time

	seq uint
}

func NewDB() *DB {
	return &DB{
		staff:       make(map[uint]*model.Staff),
		courses:     make(map[uint]*model.Course),
		students:    make(map[uint]*model.Student),
		reports:     make(map[uint]*model.Report),
		enrollments: make(map[uint][]uint),
		revoked:     make(map[string]time.Time),
	}
}

func (db *DB) nextID() uint {
	db.seq++
	return db.seq
}

func stamp(base *model.BaseModel, id uint) {
	now := time.Now()
	base.ID = id
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func cloneCourse(c *model.Course) model.Course {
	out := *c
	out.Topics = append(out.Topics[:0:0], c.Topics...)
	return out
}

func cloneReport(r *model.Report) model.Report {
	out := *r
	out.Course = nil
	out.Topics = append(out.Topics[:0:0], r.Topics...)
	return out
}
