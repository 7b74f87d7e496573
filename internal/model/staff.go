package model

// StaffRole 管理员角色: 1 全局管理员, 2 仅管理本院系学生
type StaffRole int

const (
	RoleGlobal  StaffRole = 1
	RoleFaculty StaffRole = 2
)

const (
	StaffActive  = "Active"
	StaffBlocked = "Blocked"
)

// swagger:model Staff
type Staff struct {
	BaseModel
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"size:100;not null" json:"-"`
	Contact  string    `gorm:"size:30" json:"contact"`
	Status   string    `gorm:"size:20;default:'Active'" json:"status"`
	Role     StaffRole `gorm:"default:2" json:"role"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) IsActive() bool {
	return s.Status == StaffActive
}
