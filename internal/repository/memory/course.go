package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(_ context.Context, course *model.Course) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	stamp(&course.BaseModel, r.db.nextID())
	row := cloneCourse(course)
	r.db.courses[row.ID] = &row
	return nil
}

func (r *CourseRepository) FindByID(_ context.Context, id uint) (*model.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if c, ok := r.db.courses[id]; ok {
		out := cloneCourse(c)
		return &out, nil
	}
	return &model.Course{}, gorm.ErrRecordNotFound
}

func (r *CourseRepository) FindByIDs(_ context.Context, ids []uint) ([]model.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	courses := make([]model.Course, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if c, ok := r.db.courses[id]; ok && !seen[id] {
			seen[id] = true
			courses = append(courses, cloneCourse(c))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *CourseRepository) List(_ context.Context) ([]model.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	courses := make([]model.Course, 0, len(r.db.courses))
	for _, c := range r.db.courses {
		courses = append(courses, cloneCourse(c))
	}
	sort.Slice(courses, func(i, j int) bool {
		return strings.ToLower(courses[i].Name) < strings.ToLower(courses[j].Name)
	})
	return courses, nil
}

func (r *CourseRepository) Update(_ context.Context, course *model.Course) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&course.BaseModel, course.ID)
	row := cloneCourse(course)
	r.db.courses[row.ID] = &row
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, id uint) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.courses, id)
	return nil
}

func (r *CourseRepository) Count(_ context.Context) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return int64(len(r.db.courses)), nil
}
