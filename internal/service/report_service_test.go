package service

import (
	"errors"
	"testing"
	"time"

	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/monitoring"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProgressDates(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A", "B")
	student := f.newStudent(t, f.admin, "R1", course.ID)
	p := util.StudentPrincipal(student)
	report := f.reportOf(t, student.ID, course.ID)

	updated, err := f.report.UpdateProgress(f.ctx, p, ProgressInput{ReportID: report.ID, TopicIndex: intPtr(1), IsChecked: true})
	require.NoError(t, err)
	assert.True(t, updated.Topics[1].IsChecked)
	assert.Equal(t, "2024-03-15", updated.Topics[1].Date)

	updated, err = f.report.UpdateProgress(f.ctx, p, ProgressInput{ReportID: report.ID, TopicIndex: intPtr(1), IsChecked: false, Date: "2024-03-01"})
	require.NoError(t, err)
	assert.False(t, updated.Topics[1].IsChecked)
	assert.Empty(t, updated.Topics[1].Date)

	_, err = f.report.UpdateProgress(f.ctx, p, ProgressInput{ReportID: report.ID, TopicIndex: intPtr(5), IsChecked: true})
	assert.ErrorIs(t, err, util.ErrTopicNotFound)

	_, err = f.report.UpdateProgress(f.ctx, p, ProgressInput{ReportID: 999, TopicIndex: intPtr(0), IsChecked: true})
	assert.ErrorIs(t, err, util.ErrReportNotFound)
}

func TestUpdateProgressOwnership(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A")
	owner := f.newStudent(t, f.admin, "R1", course.ID)
	other := f.newStudent(t, f.admin, "R2", course.ID)
	report := f.reportOf(t, owner.ID, course.ID)

	_, err := f.report.UpdateProgress(f.ctx, util.StudentPrincipal(other), ProgressInput{ReportID: report.ID, TopicIndex: intPtr(0), IsChecked: true})
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
	assert.False(t, f.reportOf(t, owner.ID, course.ID).Topics[0].IsChecked)
}

func TestUpdateProgressNotifiesFaculty(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "Intro")
	faculty := f.newFaculty(t, "fac@test.io")
	student := f.newStudent(t, faculty, "R1", course.ID)
	report := f.reportOf(t, student.ID, course.ID)

	_, err := f.report.UpdateProgress(f.ctx, util.StudentPrincipal(student), ProgressInput{ReportID: report.ID, TopicIndex: intPtr(0), IsChecked: true, Date: "2024-03-02"})
	require.NoError(t, err)

	msg := f.mailer.wait(t)
	assert.Equal(t, "fac@test.io", msg.To.Address)
	assert.Equal(t, "Topic Completed by Student R1", msg.Subject)
	assert.Contains(t, msg.TextContent, "Intro on 2024-03-02")
}

func TestUpdateProgressIgnoresMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")
	course := f.newCourse(t, "Go", "Intro")
	faculty := f.newFaculty(t, "fac@test.io")
	student := f.newStudent(t, faculty, "R1", course.ID)
	report := f.reportOf(t, student.ID, course.ID)

	failed := monitoring.NotificationsSent.WithLabelValues("recording", "failed")
	before := testutil.ToFloat64(failed)

	updated, err := f.report.UpdateProgress(f.ctx, util.StudentPrincipal(student), ProgressInput{ReportID: report.ID, TopicIndex: intPtr(0), IsChecked: true})
	require.NoError(t, err)
	assert.True(t, updated.Topics[0].IsChecked)
	assert.Equal(t, "2024-03-15", updated.Topics[0].Date)

	assert.Equal(t, "fac@test.io", f.mailer.wait(t).To.Address)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(failed) == before+1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDetailsDefaults(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A", "B")
	student := f.newStudent(t, f.admin, "R1", course.ID)

	detail, err := f.report.Details(f.ctx, util.StudentPrincipal(student), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, course.ID, detail.Report.CourseID)
	require.NotNil(t, detail.Report.Course)
	assert.Equal(t, "Go", detail.Report.Course.Name)
	assert.Equal(t, 0, detail.Percent)

	_, err = f.report.Details(f.ctx, f.admin, 0, 0)
	assert.Error(t, err)
}

func TestRemoveTopicThroughReport(t *testing.T) {
	f := newFixture(t)
	course := f.newCourse(t, "Go", "A")
	owner := f.newStudent(t, f.admin, "R1", course.ID)
	other := f.newStudent(t, f.admin, "R2", course.ID)

	_, err := f.report.AddTopic(f.ctx, util.StudentPrincipal(owner), AddTopicInput{CourseID: course.ID, TopicTitle: "Mine"})
	require.NoError(t, err)

	otherReport := f.reportOf(t, other.ID, course.ID)
	ownReport := f.reportOf(t, owner.ID, course.ID)

	// 通过别人的报告移除: 报告不可见
	_, err = f.report.RemoveTopic(f.ctx, util.StudentPrincipal(owner), RemoveTopicInput{ReportID: otherReport.ID, TopicIndex: intPtr(1)})
	assert.ErrorIs(t, err, util.ErrStudentNotFound)

	topic, err := f.report.RemoveTopic(f.ctx, util.StudentPrincipal(owner), RemoveTopicInput{ReportID: ownReport.ID, TopicIndex: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, "Mine", topic.Title)
	assert.Equal(t, []string{"A"}, titlesOf(f.reportOf(t, other.ID, course.ID).Topics))
}
