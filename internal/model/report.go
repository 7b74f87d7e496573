package model

import (
	"time"

	"gorm.io/datatypes"
)

// TopicProgress 报告中单个主题的完成情况, 标题从课程复制而来
type TopicProgress struct {
	TopicID        string     `json:"topicId"`
	TopicTitle     string     `json:"topicTitle"`
	IsChecked      bool       `json:"isChecked"`
	Date           string     `json:"date"`
	AddedBy        Provenance `json:"addedBy"`
	AddedByStudent *uint      `json:"addedByStudent"`
	AddedAt        time.Time  `json:"addedAt"`
}

// swagger:model Report
type Report struct {
	BaseModel
	StudentID uint                               `gorm:"not null;uniqueIndex:idx_report_student_course" json:"studentId"`
	CourseID  uint                               `gorm:"not null;uniqueIndex:idx_report_student_course;index" json:"courseId"`
	Course    *Course                            `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Topics    datatypes.JSONSlice[TopicProgress] `json:"topics"`
}

func (Report) TableName() string {
	return "reports"
}

// CheckedCount 已完成的主题数
func (r *Report) CheckedCount() int {
	n := 0
	for _, t := range r.Topics {
		if t.IsChecked {
			n++
		}
	}
	return n
}
