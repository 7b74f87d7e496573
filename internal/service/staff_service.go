package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StaffService struct {
	Staff StaffStore
}

func NewStaffService(staff StaffStore) *StaffService {
	return &StaffService{Staff: staff}
}

type StaffInput struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password"`
	Contact  string          `json:"contact"`
	Role     model.StaffRole `json:"role"`
	Status   string          `json:"status"`
}

func staffErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrStaffNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrEmailExists
	}
	return err
}

func normalizeRole(role model.StaffRole) (model.StaffRole, error) {
	switch role {
	case 0:
		return model.RoleFaculty, nil
	case model.RoleGlobal, model.RoleFaculty:
		return role, nil
	}
	return 0, util.NewValidationError("Invalid role")
}

func normalizeStaffStatus(status string) (string, error) {
	switch status {
	case "":
		return model.StaffActive, nil
	case model.StaffActive, model.StaffBlocked:
		return status, nil
	}
	return "", util.NewValidationError("Invalid status")
}

// Register 仅全局管理员可以新增员工
func (s *StaffService) Register(ctx context.Context, p util.Principal, in StaffInput) (*model.Staff, error) {
	if !p.IsGlobalStaff() {
		return nil, util.ErrPermissionDenied
	}
	return s.create(ctx, in)
}

// Bootstrap 供命令行创建首个管理员, 不做权限校验
func (s *StaffService) Bootstrap(ctx context.Context, in StaffInput) (*model.Staff, error) {
	return s.create(ctx, in)
}

func (s *StaffService) create(ctx context.Context, in StaffInput) (*model.Staff, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, util.NewValidationError("Required fields missing")
	}
	role, err := normalizeRole(in.Role)
	if err != nil {
		return nil, err
	}
	status, err := normalizeStaffStatus(in.Status)
	if err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Contact:  strings.TrimSpace(in.Contact),
		Role:     role,
		Status:   status,
	}
	if err := s.Staff.Create(ctx, staff); err != nil {
		return nil, staffErr(err)
	}

	logger.Log.Info("Staff registered", zap.Uint("staffID", staff.ID), zap.Int("role", int(staff.Role)))
	return staff, nil
}

func (s *StaffService) List(ctx context.Context, p util.Principal) ([]model.Staff, error) {
	if !p.IsGlobalStaff() {
		return nil, util.ErrPermissionDenied
	}
	return s.Staff.List(ctx)
}

// Get 按ID查询员工
func (s *StaffService) Get(ctx context.Context, id uint) (*model.Staff, error) {
	staff, err := s.Staff.FindByID(ctx, id)
	if err != nil {
		return nil, staffErr(err)
	}
	return staff, nil
}

// Update 密码留空表示不修改
func (s *StaffService) Update(ctx context.Context, p util.Principal, id uint, in StaffInput) (*model.Staff, error) {
	if !p.IsGlobalStaff() {
		return nil, util.ErrPermissionDenied
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, util.NewValidationError("Required fields missing")
	}

	staff, err := s.Staff.FindByID(ctx, id)
	if err != nil {
		return nil, staffErr(err)
	}

	if in.Role != 0 {
		if staff.Role, err = normalizeRole(in.Role); err != nil {
			return nil, err
		}
	}
	if in.Status != "" {
		if staff.Status, err = normalizeStaffStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.Password) != "" {
		if staff.Password, err = hashPassword(in.Password); err != nil {
			return nil, err
		}
	}
	staff.Name = in.Name
	staff.Email = in.Email
	staff.Contact = strings.TrimSpace(in.Contact)

	if err := s.Staff.Update(ctx, staff); err != nil {
		return nil, staffErr(err)
	}
	return staff, nil
}
