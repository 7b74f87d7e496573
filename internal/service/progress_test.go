package service

import (
	"testing"

	"github.com/cdmi123/progress-report/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		checked, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
		{5, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.checked, tt.total), "Percent(%d, %d)", tt.checked, tt.total)
	}
}

func TestPercentMonotonic(t *testing.T) {
	for total := 1; total <= 40; total++ {
		prev := -1
		for checked := 0; checked <= total; checked++ {
			p := Percent(checked, total)
			assert.GreaterOrEqual(t, p, prev)
			assert.GreaterOrEqual(t, p, 0)
			assert.LessOrEqual(t, p, 100)
			prev = p
		}
	}
}

func TestCourseProgressFor(t *testing.T) {
	course := &model.Course{Name: "Go", Topics: adminTopics("A", "B", "C", "D")}
	course.ID = 3

	assert.Equal(t, model.CourseProgress{CourseID: 3, CourseName: "Go", Total: 4}, CourseProgressFor(course, nil))

	report := &model.Report{Topics: NewReportTopics(course.Topics)}
	report.Topics[0].IsChecked = true
	report.Topics[3].IsChecked = true
	cp := CourseProgressFor(course, report)
	assert.Equal(t, 2, cp.Checked)
	assert.Equal(t, 50, cp.Percent)
}
