package repository

import (
	"context"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

const studentCoursesTable = "student_courses"

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// Create 写入学生及选课关系, 不会改动课程本身
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.DB.WithContext(ctx).Omit("Courses.*", "Faculty").Create(student).Error
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).Preload("Courses").First(&student, id).Error
	return &student, err
}

// FindAllByContact 联系电话不唯一, 按 ID 升序返回全部匹配的学生
func (r *StudentRepository) FindAllByContact(ctx context.Context, contact string) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.WithContext(ctx).Where("contact = ?", contact).Order("id").Find(&students).Error
	return students, err
}

func (r *StudentRepository) filtered(ctx context.Context, filter model.StudentFilter) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&model.Student{})
	if filter.FacultyID != 0 {
		query = query.Where("faculty_id = ?", filter.FacultyID)
	}
	switch filter.Status {
	case "", model.StudentStatusAll:
	case model.StudentRunning:
		query = query.Where("status = ? OR status = '' OR status IS NULL", model.StudentRunning)
	default:
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

func (r *StudentRepository) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	var students []model.Student
	err := r.filtered(ctx, filter).
		Preload("Courses").
		Preload("Faculty").
		Order("created_at DESC").
		Find(&students).Error
	return students, err
}

// Update 保存学生字段并替换选课关系
func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Courses", "Faculty").Save(student).Error; err != nil {
			return err
		}
		return tx.Model(student).Omit("Courses.*").Association("Courses").Replace(student.Courses)
	})
}

func (r *StudentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.DB.WithContext(ctx).Model(&model.Student{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 物理删除学生及其选课关系
func (r *StudentRepository) Delete(ctx context.Context, id uint) error {
	student := model.Student{BaseModel: model.BaseModel{ID: id}}
	result := r.DB.WithContext(ctx).Unscoped().Select("Courses").Delete(&student)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StudentRepository) RemoveCourse(ctx context.Context, courseID uint) error {
	return r.DB.WithContext(ctx).Exec("DELETE FROM "+studentCoursesTable+" WHERE course_id = ?", courseID).Error
}

func (r *StudentRepository) EnrolledIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Table(studentCoursesTable).
		Where("course_id = ?", courseID).
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *StudentRepository) Count(ctx context.Context, filter model.StudentFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}
