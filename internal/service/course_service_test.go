package service

import (
	"testing"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 课程 Intro/Routing -> 改名 -> 追加 Deployment -> 勾选 Intro -> 33%
func TestNodeCourseWalkthrough(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Node.js", "Intro", "Routing")
	student := f.newStudent(t, f.admin, "N1", course.ID)

	report := f.reportOf(t, student.ID, course.ID)
	assert.Equal(t, []string{"Intro", "Routing"}, titlesOf(report.Topics))

	_, err := f.course.Update(f.ctx, f.admin, course.ID, CourseInput{
		Name: "Node.js", Topics: TopicTitles("Intro", "Express Routing"),
	})
	require.NoError(t, err)
	report = f.reportOf(t, student.ID, course.ID)
	assert.Equal(t, []string{"Intro", "Express Routing"}, titlesOf(report.Topics))

	_, err = f.course.Update(f.ctx, f.admin, course.ID, CourseInput{
		Name: "Node.js", Topics: TopicTitles("Intro", "Express Routing", "Deployment"),
	})
	require.NoError(t, err)
	report = f.reportOf(t, student.ID, course.ID)
	require.Len(t, report.Topics, 3)
	assert.False(t, report.Topics[2].IsChecked)

	_, err = f.report.UpdateProgress(f.ctx, util.StudentPrincipal(student), ProgressInput{
		ReportID: report.ID, TopicIndex: intPtr(0), IsChecked: true, Date: "2024-03-01",
	})
	require.NoError(t, err)

	detail, err := f.report.Details(f.ctx, util.StudentPrincipal(student), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 33, detail.Percent)
	assert.True(t, detail.Report.Topics[0].IsChecked)
	assert.Equal(t, "2024-03-01", detail.Report.Topics[0].Date)
}

func TestCourseUpdateRenamePreservesChecks(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A", "B", "C")
	s1 := f.newStudent(t, f.admin, "R1", course.ID)
	s2 := f.newStudent(t, f.admin, "R2", course.ID)

	r1 := f.reportOf(t, s1.ID, course.ID)
	_, err := f.report.UpdateProgress(f.ctx, f.admin, ProgressInput{ReportID: r1.ID, TopicIndex: intPtr(1), IsChecked: true, Date: "2024-01-05"})
	require.NoError(t, err)

	_, err = f.course.Update(f.ctx, f.admin, course.ID, CourseInput{Name: "Go", Topics: TopicTitles("A", "B2", "C")})
	require.NoError(t, err)

	r1 = f.reportOf(t, s1.ID, course.ID)
	assert.Equal(t, []string{"A", "B2", "C"}, titlesOf(r1.Topics))
	assert.True(t, r1.Topics[1].IsChecked)
	assert.Equal(t, "2024-01-05", r1.Topics[1].Date)

	r2 := f.reportOf(t, s2.ID, course.ID)
	assert.Equal(t, []string{"A", "B2", "C"}, titlesOf(r2.Topics))
	assert.False(t, r2.Topics[1].IsChecked)
}

func TestCourseUpdateRejectsAdminTopicRemoval(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A", "B")
	student := f.newStudent(t, f.admin, "R1", course.ID)

	_, err := f.course.Update(f.ctx, f.admin, course.ID, CourseInput{Name: "Go renamed", Topics: TopicTitles("A")})
	assert.ErrorIs(t, err, util.ErrTopicRemovalForbidden)

	stored, err := f.courses.FindByID(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", stored.Name)
	assert.Equal(t, []string{"A", "B"}, stored.TopicTitles())
	assert.Equal(t, []string{"A", "B"}, titlesOf(f.reportOf(t, student.ID, course.ID).Topics))
}

func TestCourseCreateDuplicateTopic(t *testing.T) {
	f := newFixture(t)
	_, err := f.course.Create(f.ctx, f.admin, CourseInput{Name: "Go", Topics: TopicTitles("A", "A")})
	assert.ErrorIs(t, err, util.ErrTopicExists)

	_, err = f.course.Create(f.ctx, util.Principal{ID: 1, Kind: util.KindStudent}, CourseInput{Name: "Go"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAddTopicProvenanceAndFanOut(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A")
	s1 := f.newStudent(t, f.admin, "R1", course.ID)
	s2 := f.newStudent(t, f.admin, "R2", course.ID)
	p1 := util.StudentPrincipal(s1)

	topic, err := f.course.AddTopic(f.ctx, p1, course.ID, "Extra")
	require.NoError(t, err)
	assert.Equal(t, model.AddedByStudent, topic.AddedBy)
	require.NotNil(t, topic.AddedByStudent)
	assert.Equal(t, s1.ID, *topic.AddedByStudent)

	for _, sid := range []uint{s1.ID, s2.ID} {
		r := f.reportOf(t, sid, course.ID)
		assert.Equal(t, []string{"A", "Extra"}, titlesOf(r.Topics))
		assert.Equal(t, model.AddedByStudent, r.Topics[1].AddedBy)
	}

	staffTopic, err := f.course.AddTopic(f.ctx, f.admin, course.ID, "Bonus")
	require.NoError(t, err)
	assert.Equal(t, model.AddedByAdmin, staffTopic.AddedBy)
	assert.Nil(t, staffTopic.AddedByStudent)

	_, err = f.course.AddTopic(f.ctx, p1, course.ID, "Extra")
	assert.ErrorIs(t, err, util.ErrTopicExists)
}

func TestAddTopicRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	go1 := f.newCourse(t, "Go", "A")
	rust := f.newCourse(t, "Rust", "B")
	student := f.newStudent(t, f.admin, "R1", go1.ID)

	_, err := f.course.AddTopic(f.ctx, util.StudentPrincipal(student), rust.ID, "Extra")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestRemoveTopicPolicy(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A", "B")
	s1 := f.newStudent(t, f.admin, "R1", course.ID)
	s2 := f.newStudent(t, f.admin, "R2", course.ID)
	p1, p2 := util.StudentPrincipal(s1), util.StudentPrincipal(s2)

	_, err := f.course.AddTopic(f.ctx, p1, course.ID, "Extra")
	require.NoError(t, err)

	// 管理员添加的主题不可移除, 课程与报告保持不变
	_, err = f.course.RemoveTopic(f.ctx, f.admin, course.ID, 0)
	assert.ErrorIs(t, err, util.ErrTopicRemovalForbidden)
	assert.Equal(t, []string{"A", "B", "Extra"}, titlesOf(f.reportOf(t, s2.ID, course.ID).Topics))

	_, err = f.course.RemoveTopic(f.ctx, p2, course.ID, 2)
	assert.ErrorIs(t, err, util.ErrTopicRemovalForbidden)

	_, err = f.course.RemoveTopic(f.ctx, p1, course.ID, 9)
	assert.ErrorIs(t, err, util.ErrTopicNotFound)

	removed, err := f.course.RemoveTopic(f.ctx, p1, course.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Extra", removed.Title)

	stored, err := f.courses.FindByID(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, stored.TopicTitles())
	for _, sid := range []uint{s1.ID, s2.ID} {
		assert.Equal(t, []string{"A", "B"}, titlesOf(f.reportOf(t, sid, course.ID).Topics))
	}
}

func TestCourseUpdateRemovesStudentTopic(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A")
	student := f.newStudent(t, f.admin, "R1", course.ID)
	_, err := f.course.AddTopic(f.ctx, util.StudentPrincipal(student), course.ID, "Extra")
	require.NoError(t, err)

	_, err = f.course.Update(f.ctx, f.admin, course.ID, CourseInput{Name: "Go", Topics: TopicTitles("A")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titlesOf(f.reportOf(t, student.ID, course.ID).Topics))
}

func TestCourseDeleteCascades(t *testing.T) {
	f := newFixture(t)
	go1 := f.newCourse(t, "Go", "A")
	rust := f.newCourse(t, "Rust", "B")
	student := f.newStudent(t, f.admin, "R1", go1.ID, rust.ID)

	require.NoError(t, f.course.Delete(f.ctx, f.admin, go1.ID))

	_, err := f.reports.Find(f.ctx, student.ID, go1.ID)
	assert.Error(t, err)
	_, err = f.reports.Find(f.ctx, student.ID, rust.ID)
	assert.NoError(t, err)

	reloaded, err := f.students.FindByID(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{rust.ID}, reloaded.CourseIDs())

	_, err = f.course.Get(f.ctx, go1.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

// 单个报告保存失败时跳过, 其余报告照常同步, 调用方仍然成功
func TestCourseUpdateSkipsFailedReport(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Node.js", "Intro", "Routing")
	s1 := f.newStudent(t, f.admin, "R1", course.ID)
	s2 := f.newStudent(t, f.admin, "R2", course.ID)
	r1 := f.reportOf(t, s1.ID, course.ID)

	reports := &failingReports{ReportRepository: f.reports, failID: r1.ID}
	courses := NewCourseService(f.courses, f.students, NewSyncService(f.courses, f.students, reports))
	courses.Now = f.course.Now

	updated, err := courses.Update(f.ctx, f.admin, course.ID, CourseInput{
		Name: "Node.js", Topics: TopicTitles("Intro", "Routing & MW", "Deploy"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Topics, 3)

	assert.Equal(t, []string{"Intro", "Routing"}, titlesOf(f.reportOf(t, s1.ID, course.ID).Topics))
	assert.Equal(t, []string{"Intro", "Routing & MW", "Deploy"}, titlesOf(f.reportOf(t, s2.ID, course.ID).Topics))
}
