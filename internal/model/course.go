package model

import (
	"time"

	"gorm.io/datatypes"
)

// Provenance 标记主题由谁添加
type Provenance string

const (
	AddedByAdmin   Provenance = "admin"
	AddedByStudent Provenance = "student"
)

// Topic 课程主题目录中的一项
type Topic struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	AddedBy        Provenance `json:"addedBy"`
	AddedByStudent *uint      `json:"addedByStudent"`
	AddedAt        time.Time  `json:"addedAt"`
}

// swagger:model Course
type Course struct {
	BaseModel
	Name      string                     `gorm:"size:150;not null" json:"name"`
	TopicName string                     `gorm:"size:150" json:"topicName"`
	Topics    datatypes.JSONSlice[Topic] `json:"topics"`
}

func (Course) TableName() string {
	return "courses"
}

// TopicTitles 按顺序返回主题标题
func (c *Course) TopicTitles() []string {
	titles := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		titles[i] = t.Title
	}
	return titles
}

// HasTopicTitle 判断是否已存在同名主题
func (c *Course) HasTopicTitle(title string) bool {
	for _, t := range c.Topics {
		if t.Title == title {
			return true
		}
	}
	return false
}
