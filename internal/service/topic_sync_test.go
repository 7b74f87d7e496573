package service

import (
	"encoding/json"
	"testing"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminTopics(titles ...string) []model.Topic {
	topics := NewAdminTopics(TopicTitles(titles...), fixedNow)
	return topics
}

func TestTopicInputUnmarshal(t *testing.T) {
	var in []TopicInput
	require.NoError(t, json.Unmarshal([]byte(`["Intro", {"id": "t-2", "title": "Routing"}]`), &in))
	assert.Equal(t, []TopicInput{{Title: "Intro"}, {ID: "t-2", Title: "Routing"}}, in)

	assert.Error(t, json.Unmarshal([]byte(`[42]`), &in))
}

func TestNormalizeTopicInputs(t *testing.T) {
	out, err := NormalizeTopicInputs(TopicTitles(" Intro ", "", "  ", "Routing"))
	require.NoError(t, err)
	assert.Equal(t, TopicTitles("Intro", "Routing"), out)

	_, err = NormalizeTopicInputs(TopicTitles("Intro", "Intro "))
	assert.ErrorIs(t, err, util.ErrTopicExists)
}

func TestResolveTopicEdits(t *testing.T) {
	old := adminTopics("Intro", "Routing", "Testing")

	t.Run("rename by position", func(t *testing.T) {
		topics, removed := ResolveTopicEdits(old, TopicTitles("Intro", "Express Routing", "Testing"), fixedNow)
		assert.Empty(t, removed)
		require.Len(t, topics, 3)
		assert.Equal(t, old[1].ID, topics[1].ID)
		assert.Equal(t, "Express Routing", topics[1].Title)
	})

	t.Run("reorder by id", func(t *testing.T) {
		in := []TopicInput{{ID: old[2].ID, Title: "Testing"}, {ID: old[0].ID, Title: "Intro"}, {ID: old[1].ID, Title: "Routing"}}
		topics, removed := ResolveTopicEdits(old, in, fixedNow)
		assert.Empty(t, removed)
		assert.Equal(t, []string{old[2].ID, old[0].ID, old[1].ID}, []string{topics[0].ID, topics[1].ID, topics[2].ID})
	})

	t.Run("reorder by title", func(t *testing.T) {
		topics, removed := ResolveTopicEdits(old, TopicTitles("Testing", "Intro", "Routing"), fixedNow)
		assert.Empty(t, removed)
		assert.Equal(t, old[2].ID, topics[0].ID)
		assert.Equal(t, old[0].ID, topics[1].ID)
	})

	t.Run("append", func(t *testing.T) {
		topics, removed := ResolveTopicEdits(old, TopicTitles("Intro", "Routing", "Testing", "Deployment"), fixedNow)
		assert.Empty(t, removed)
		require.Len(t, topics, 4)
		assert.Equal(t, model.AddedByAdmin, topics[3].AddedBy)
		assert.NotEmpty(t, topics[3].ID)
		assert.Equal(t, fixedNow, topics[3].AddedAt)
	})

	t.Run("drop reports removal", func(t *testing.T) {
		topics, removed := ResolveTopicEdits(old, TopicTitles("Intro", "Routing"), fixedNow)
		assert.Len(t, topics, 2)
		require.Len(t, removed, 1)
		assert.Equal(t, old[2].ID, removed[0].ID)
	})

	t.Run("unknown id is a new topic", func(t *testing.T) {
		in := []TopicInput{{ID: "gone", Title: "Intro"}, {Title: "Routing"}, {Title: "Testing"}}
		topics, removed := ResolveTopicEdits(old, in, fixedNow)
		assert.NotEqual(t, old[0].ID, topics[0].ID)
		require.Len(t, removed, 1)
		assert.Equal(t, old[0].ID, removed[0].ID)
	})
}

func TestReconcileTopicsRenamePreservesProgress(t *testing.T) {
	course := adminTopics("Intro", "Routing")
	report := NewReportTopics(course)
	report[0].IsChecked = true
	report[0].Date = "2024-01-01"

	course[1].Title = "Express Routing"
	out, changed := ReconcileTopics(course, report)
	assert.True(t, changed)
	assert.Equal(t, []string{"Intro", "Express Routing"}, titlesOf(out))
	assert.True(t, out[0].IsChecked)
	assert.Equal(t, "2024-01-01", out[0].Date)
	assert.False(t, out[1].IsChecked)
}

func TestReconcileTopicsAddsAbsentTitles(t *testing.T) {
	course := adminTopics("A", "B")
	report := NewReportTopics(course)
	report[1].IsChecked = true
	report[1].Date = "2024-02-02"

	course = append(course, adminTopics("C")...)
	out, changed := ReconcileTopics(course, report)
	assert.True(t, changed)
	assert.Equal(t, []string{"A", "B", "C"}, titlesOf(out))
	assert.True(t, out[1].IsChecked)
	assert.False(t, out[2].IsChecked)
	assert.Empty(t, out[2].Date)
}

func TestReconcileTopicsRemovesAndReorders(t *testing.T) {
	course := adminTopics("A", "B", "C")
	report := NewReportTopics(course)
	report[2].IsChecked = true
	report[2].Date = "2024-02-02"

	out, _ := ReconcileTopics([]model.Topic{course[2], course[0]}, report)
	assert.Equal(t, []string{"C", "A"}, titlesOf(out))
	assert.True(t, out[0].IsChecked)
	assert.Equal(t, "2024-02-02", out[0].Date)
}

func TestReconcileTopicsLegacyEntriesMatchByTitle(t *testing.T) {
	course := adminTopics("Intro", "Routing")
	report := []model.TopicProgress{
		{TopicTitle: "Routing", IsChecked: true, Date: "2024-01-03"},
		{TopicTitle: "Intro"},
	}

	out, changed := ReconcileTopics(course, report)
	assert.True(t, changed)
	assert.Equal(t, course[0].ID, out[0].TopicID)
	assert.Equal(t, course[1].ID, out[1].TopicID)
	assert.True(t, out[1].IsChecked)
	assert.Equal(t, "2024-01-03", out[1].Date)
}

func TestReconcileTopicsUnchanged(t *testing.T) {
	course := adminTopics("A", "B")
	report := NewReportTopics(course)

	out, changed := ReconcileTopics(course, report)
	assert.False(t, changed)
	assert.Equal(t, report, out)
}

func TestNewReportTopics(t *testing.T) {
	out := NewReportTopics(adminTopics("A", "B"))
	require.Len(t, out, 2)
	assert.Equal(t, []string{"A", "B"}, titlesOf(out))
	for _, p := range out {
		assert.False(t, p.IsChecked)
		assert.Empty(t, p.Date)
	}
}

func TestCanRemoveTopic(t *testing.T) {
	owner := uint(7)
	studentTopic := model.Topic{Title: "Extra", AddedBy: model.AddedByStudent, AddedByStudent: &owner}
	adminTopic := model.Topic{Title: "Intro", AddedBy: model.AddedByAdmin}

	global := util.Principal{ID: 1, Kind: util.KindStaff, Role: model.RoleGlobal}
	faculty := util.Principal{ID: 2, Kind: util.KindStaff, Role: model.RoleFaculty}

	tests := []struct {
		name    string
		topic   model.Topic
		p       util.Principal
		wantErr bool
	}{
		{"global staff removes student topic", studentTopic, global, false},
		{"faculty staff removes student topic", studentTopic, faculty, false},
		{"owner removes own topic", studentTopic, util.Principal{ID: 7, Kind: util.KindStudent}, false},
		{"other student rejected", studentTopic, util.Principal{ID: 8, Kind: util.KindStudent}, true},
		{"admin topic rejected for staff", adminTopic, global, true},
		{"admin topic rejected for student", adminTopic, util.Principal{ID: 7, Kind: util.KindStudent}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanRemoveTopic(tt.topic, tt.p)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrTopicRemovalForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
