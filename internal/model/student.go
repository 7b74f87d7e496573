package model

const (
	StudentRunning   = "Running"
	StudentCompleted = "Completed"
)

// swagger:model Student
type Student struct {
	BaseModel
	Name          string   `gorm:"size:100;not null" json:"name"`
	Email         string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Contact       string   `gorm:"size:30;index;not null" json:"contact"`
	RegNo         string   `gorm:"size:50;uniqueIndex;not null" json:"regNo"`
	FacultyID     uint     `gorm:"index" json:"facultyId"`
	Faculty       *Staff   `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	StartDate     string   `gorm:"size:10" json:"startDate"`
	EndDate       string   `gorm:"size:10" json:"endDate"`
	Password      string   `gorm:"size:100;not null" json:"-"`
	SignatureData string   `gorm:"type:text" json:"signatureData,omitempty"`
	Status        string   `gorm:"size:20" json:"status"`
	Courses       []Course `gorm:"many2many:student_courses" json:"courses"`
}

func (Student) TableName() string {
	return "students"
}

// EffectiveStatus 空状态按 Running 处理
func (s *Student) EffectiveStatus() string {
	if s.Status == "" {
		return StudentRunning
	}
	return s.Status
}

// CourseIDs 返回已选课程ID
func (s *Student) CourseIDs() []uint {
	ids := make([]uint, 0, len(s.Courses))
	for _, c := range s.Courses {
		ids = append(ids, c.ID)
	}
	return ids
}

// IsValidStudentStatus 校验可写入的状态值
func IsValidStudentStatus(status string) bool {
	return status == StudentRunning || status == StudentCompleted
}
