package memory

import (
	"context"
	"sort"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(_ context.Context, report *model.Report) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, existing := range r.db.reports {
		if existing.StudentID == report.StudentID && existing.CourseID == report.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	stamp(&report.BaseModel, r.db.nextID())
	row := cloneReport(report)
	r.db.reports[row.ID] = &row
	return nil
}

func (r *ReportRepository) FindByID(_ context.Context, id uint) (*model.Report, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if rep, ok := r.db.reports[id]; ok {
		out := cloneReport(rep)
		return &out, nil
	}
	return &model.Report{}, gorm.ErrRecordNotFound
}

func (r *ReportRepository) Find(_ context.Context, studentID, courseID uint) (*model.Report, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, rep := range r.db.reports {
		if rep.StudentID == studentID && rep.CourseID == courseID {
			out := cloneReport(rep)
			return &out, nil
		}
	}
	return &model.Report{}, gorm.ErrRecordNotFound
}

func (r *ReportRepository) list(keep func(*model.Report) bool) []model.Report {
	reports := make([]model.Report, 0)
	for _, rep := range r.db.reports {
		if keep(rep) {
			reports = append(reports, cloneReport(rep))
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports
}

func (r *ReportRepository) ListByCourse(_ context.Context, courseID uint) ([]model.Report, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.list(func(rep *model.Report) bool { return rep.CourseID == courseID }), nil
}

func (r *ReportRepository) ListByStudent(_ context.Context, studentID uint) ([]model.Report, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.list(func(rep *model.Report) bool { return rep.StudentID == studentID }), nil
}

func (r *ReportRepository) Save(_ context.Context, report *model.Report) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if report.ID == 0 {
		report.ID = r.db.nextID()
	}
	stamp(&report.BaseModel, report.ID)
	row := cloneReport(report)
	r.db.reports[row.ID] = &row
	return nil
}

func (r *ReportRepository) deleteWhere(match func(*model.Report) bool) {
	for id, rep := range r.db.reports {
		if match(rep) {
			delete(r.db.reports, id)
		}
	}
}

func (r *ReportRepository) DeleteByStudent(_ context.Context, studentID uint) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	r.deleteWhere(func(rep *model.Report) bool { return rep.StudentID == studentID })
	return nil
}

func (r *ReportRepository) DeleteByCourse(_ context.Context, courseID uint) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	r.deleteWhere(func(rep *model.Report) bool { return rep.CourseID == courseID })
	return nil
}

func (r *ReportRepository) Count(_ context.Context) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return int64(len(r.db.reports)), nil
}
