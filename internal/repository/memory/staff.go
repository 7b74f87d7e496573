package memory

import (
	"context"
	"sort"

	"github.com/cdmi123/progress-report/internal/model"

	"gorm.io/gorm"
)

type StaffRepository struct {
	db *DB
}

func NewStaffRepository(db *DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) emailTaken(email string, exclude uint) bool {
	for id, s := range r.db.staff {
		if id != exclude && s.Email == email {
			return true
		}
	}
	return false
}

func (r *StaffRepository) Create(_ context.Context, staff *model.Staff) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if r.emailTaken(staff.Email, 0) {
		return gorm.ErrDuplicatedKey
	}
	if staff.Status == "" {
		staff.Status = model.StaffActive
	}
	if staff.Role == 0 {
		staff.Role = model.RoleFaculty
	}
	stamp(&staff.BaseModel, r.db.nextID())
	row := *staff
	r.db.staff[row.ID] = &row
	return nil
}

func (r *StaffRepository) FindByID(_ context.Context, id uint) (*model.Staff, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if s, ok := r.db.staff[id]; ok {
		out := *s
		return &out, nil
	}
	return &model.Staff{}, gorm.ErrRecordNotFound
}

func (r *StaffRepository) FindByEmail(_ context.Context, email string) (*model.Staff, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.db.staff {
		if s.Email == email {
			out := *s
			return &out, nil
		}
	}
	return &model.Staff{}, gorm.ErrRecordNotFound
}

func (r *StaffRepository) List(_ context.Context) ([]model.Staff, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	staff := make([]model.Staff, 0, len(r.db.staff))
	for _, s := range r.db.staff {
		staff = append(staff, *s)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID > staff[j].ID })
	return staff, nil
}

func (r *StaffRepository) Update(_ context.Context, staff *model.Staff) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.staff[staff.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.emailTaken(staff.Email, staff.ID) {
		return gorm.ErrDuplicatedKey
	}
	stamp(&staff.BaseModel, staff.ID)
	row := *staff
	r.db.staff[row.ID] = &row
	return nil
}

func (r *StaffRepository) Count(_ context.Context) (int64, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return int64(len(r.db.staff)), nil
}
