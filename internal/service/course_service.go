package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/logger"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	Courses  CourseStore
	Students StudentStore
	Sync     *SyncService
	// 测试可替换
	Now func() time.Time
}

func NewCourseService(courses CourseStore, students StudentStore, sync *SyncService) *CourseService {
	return &CourseService{Courses: courses, Students: students, Sync: sync, Now: time.Now}
}

type CourseInput struct {
	Name      string       `json:"name" binding:"required"`
	TopicName string       `json:"topicName"`
	Topics    []TopicInput `json:"topics"`
}

func courseErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	}
	return err
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.Courses.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, courseErr(err)
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, p util.Principal, in CourseInput) (*model.Course, error) {
	if !p.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.NewValidationError("Course name is required")
	}
	topics, err := NormalizeTopicInputs(in.Topics)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Name:      name,
		TopicName: strings.TrimSpace(in.TopicName),
		Topics:    NewAdminTopics(topics, s.Now()),
	}
	if err := s.Courses.Create(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(err, "create course")
	}

	logger.Log.Info("Course created", zap.Uint("courseID", course.ID), zap.Int("topics", len(course.Topics)))
	return course, nil
}

// Update 修改课程名称与主题目录, 随后同步所有报告。
// 任一被移除的主题未通过移除策略时整个编辑被拒绝。
func (s *CourseService) Update(ctx context.Context, p util.Principal, id uint, in CourseInput) (*model.Course, error) {
	if !p.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.NewValidationError("Course name is required")
	}
	inputs, err := NormalizeTopicInputs(in.Topics)
	if err != nil {
		return nil, err
	}

	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, courseErr(err)
	}

	topics, removed := ResolveTopicEdits(course.Topics, inputs, s.Now())
	for _, t := range removed {
		if err := CanRemoveTopic(t, p); err != nil {
			return nil, err
		}
	}

	course.Name = name
	course.TopicName = strings.TrimSpace(in.TopicName)
	course.Topics = topics
	if err := s.Courses.Update(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(err, "update course")
	}

	s.Sync.SyncCourse(ctx, course, TriggerCourseEdit)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, p util.Principal, id uint) error {
	if !p.IsStaff() {
		return util.ErrPermissionDenied
	}
	if err := s.Courses.Delete(ctx, id); err != nil {
		return courseErr(err)
	}
	if err := s.Sync.DeleteCourseReports(ctx, id); err != nil {
		logger.Log.Error("Failed to clean up after course deletion", zap.Uint("courseID", id), zap.Error(err))
	}
	return nil
}

// AddTopic 追加主题并记录来源; 学生只能向自己已选的课程添加
func (s *CourseService) AddTopic(ctx context.Context, p util.Principal, courseID uint, title string) (*model.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, util.NewValidationError("Topic title is required")
	}

	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, courseErr(err)
	}

	topic := model.Topic{
		ID:      model.NewTopicID(),
		Title:   title,
		AddedBy: model.AddedByAdmin,
		AddedAt: s.Now(),
	}

	switch {
	case p.IsStaff():
	case p.IsStudent():
		student, err := s.Students.FindByID(ctx, p.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrStudentNotFound
			}
			return nil, err
		}
		if !enrolled(student, courseID) {
			return nil, util.ErrPermissionDenied
		}
		sid := student.ID
		topic.AddedBy = model.AddedByStudent
		topic.AddedByStudent = &sid
	default:
		return nil, util.ErrPermissionDenied
	}

	if course.HasTopicTitle(title) {
		return nil, util.ErrTopicExists
	}

	course.Topics = append(course.Topics, topic)
	if err := s.Courses.Update(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(err, "add topic")
	}

	s.Sync.SyncCourse(ctx, course, TriggerAddTopic)
	return &topic, nil
}

// RemoveTopic 按下标移除课程主题并同步到所有报告
func (s *CourseService) RemoveTopic(ctx context.Context, p util.Principal, courseID uint, index int) (*model.Topic, error) {
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, courseErr(err)
	}
	if index < 0 || index >= len(course.Topics) {
		return nil, util.ErrTopicNotFound
	}

	topic := course.Topics[index]
	if err := CanRemoveTopic(topic, p); err != nil {
		return nil, err
	}

	course.Topics = append(course.Topics[:index:index], course.Topics[index+1:]...)
	if err := s.Courses.Update(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(err, "remove topic")
	}

	s.Sync.SyncCourse(ctx, course, TriggerRemove)
	return &topic, nil
}

func enrolled(student *model.Student, courseID uint) bool {
	for _, c := range student.Courses {
		if c.ID == courseID {
			return true
		}
	}
	return false
}
