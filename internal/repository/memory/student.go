package memory

import (
	"context"
	"sort"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) conflicts(s *model.Student) bool {
	for id, other := range r.db.students {
		if id == s.ID {
			continue
		}
		if other.Email == s.Email || other.RegNo == s.RegNo {
			return true
		}
	}
	return false
}

// load 返回带选课信息的副本, 调用方需持有读锁
func (r *StudentRepository) load(s *model.Student, withFaculty bool) model.Student {
	out := *s
	out.Courses = make([]model.Course, 0, len(r.db.enrollments[s.ID]))
	for _, cid := range r.db.enrollments[s.ID] {
		if c, ok := r.db.courses[cid]; ok {
			out.Courses = append(out.Courses, cloneCourse(c))
		}
	}
	out.Faculty = nil
	if withFaculty {
		if f, ok := r.db.staff[s.FacultyID]; ok {
			faculty := *f
			out.Faculty = &faculty
		}
	}
	return out
}

func (r *StudentRepository) save(s *model.Student) {
	row := *s
	row.Courses = nil
	row.Faculty = nil
	r.db.students[row.ID] = &row

	ids := make([]uint, 0, len(s.Courses))
	seen := make(map[uint]bool, len(s.Courses))
	for _, c := range s.Courses {
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}
	r.db.enrollments[row.ID] = ids
}

func (r *StudentRepository) Create(_ context.Context, student *model.Student) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if r.conflicts(student) {
		return gorm.ErrDuplicatedKey
	}
	stamp(&student.BaseModel, r.db.nextID())
	r.save(student)
	return nil
}

func (r *StudentRepository) FindByID(_ context.Context, id uint) (*model.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if s, ok := r.db.students[id]; ok {
		out := r.load(s, false)
		return &out, nil
	}
	return &model.Student{}, gorm.ErrRecordNotFound
}

func (r *StudentRepository) FindAllByContact(_ context.Context, contact string) ([]model.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var students []model.Student
	for _, s := range r.db.students {
		if s.Contact == contact {
			students = append(students, r.load(s, false))
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func matches(s *model.Student, filter model.StudentFilter) bool {
	if filter.FacultyID != 0 && s.FacultyID != filter.FacultyID {
		return false
	}
	switch filter.Status {
	case "", model.StudentStatusAll:
		return true
	default:
		return s.EffectiveStatus() == filter.Status
	}
}

func (r *StudentRepository) List(_ context.Context, filter model.StudentFilter) ([]model.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	students := make([]model.Student, 0, len(r.db.students))
	for _, s := range r.db.students {
		if matches(s, filter) {
			students = append(students, r.load(s, true))
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID > students[j].ID })
	return students, nil
}

func (r *StudentRepository) Update(_ context.Context, student *model.Student) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.conflicts(student) {
		return gorm.ErrDuplicatedKey
	}
	stamp(&student.BaseModel, student.ID)
	r.save(student)
	return nil
}

func (r *StudentRepository) UpdateStatus(_ context.Context, id uint, status string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	s, ok := r.db.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *StudentRepository) Delete(_ context.Context, id uint) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.students, id)
	delete(r.db.enrollments, id)
	return nil
}

func (r *StudentRepository) RemoveCourse(_ context.Context, courseID uint) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for sid, ids := range r.db.enrollments {
		kept := ids[:0]
		for _, id := range ids {
			if id != courseID {
				kept = append(kept, id)
			}
		}
		r.db.enrollments[sid] = kept
	}
	return nil
}

func (r *StudentRepository) EnrolledIDs(_ context.Context, courseID uint) ([]uint, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var ids []uint
	for sid, cids := range r.db.enrollments {
		for _, id := range cids {
			if id == courseID {
				ids = append(ids, sid)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *StudentRepository) Count(_ context.Context, filter model.StudentFilter) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var n int64
	for _, s := range r.db.students {
		if matches(s, filter) {
			n++
		}
	}
	return n, nil
}
