package repository

import (
	"context"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

type StaffRepository struct {
	DB *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

func (r *StaffRepository) Create(ctx context.Context, staff *model.Staff) error {
	return r.DB.WithContext(ctx).Create(staff).Error
}

func (r *StaffRepository) FindByID(ctx context.Context, id uint) (*model.Staff, error) {
	var staff model.Staff
	err := r.DB.WithContext(ctx).First(&staff, id).Error
	return &staff, err
}

func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	var staff model.Staff
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&staff).Error
	return &staff, err
}

func (r *StaffRepository) List(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&staff).Error
	return staff, err
}

func (r *StaffRepository) Update(ctx context.Context, staff *model.Staff) error {
	return r.DB.WithContext(ctx).Save(staff).Error
}

func (r *StaffRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Staff{}).Count(&count).Error
	return count, err
}
