package repository

import (
	"context"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.DB.WithContext(ctx).Omit("Course").Create(report).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).First(&report, id).Error
	return &report, err
}

func (r *ReportRepository) Find(ctx context.Context, studentID, courseID uint) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&report).Error
	return &report, err
}

func (r *ReportRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Report, error) {
	var reports []model.Report
	err := r.DB.WithContext(ctx).Where("course_id = ?", courseID).Order("id ASC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Report, error) {
	var reports []model.Report
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).Order("id ASC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) Save(ctx context.Context, report *model.Report) error {
	return r.DB.WithContext(ctx).Omit("Course").Save(report).Error
}

func (r *ReportRepository) DeleteByStudent(ctx context.Context, studentID uint) error {
	return r.DB.WithContext(ctx).Unscoped().Where("student_id = ?", studentID).Delete(&model.Report{}).Error
}

func (r *ReportRepository) DeleteByCourse(ctx context.Context, courseID uint) error {
	return r.DB.WithContext(ctx).Unscoped().Where("course_id = ?", courseID).Delete(&model.Report{}).Error
}

func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Report{}).Count(&count).Error
	return count, err
}
