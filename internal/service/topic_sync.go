package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"
)

// TopicInput 课程编辑时提交的主题, 可以是纯标题字符串或 {"id","title"} 对象
type TopicInput struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

func (t *TopicInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return err
		}
		*t = TopicInput{Title: title}
		return nil
	}

	type plain TopicInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TopicInput(p)
	return nil
}

// TopicTitles 将标题列表转换为无ID的输入
func TopicTitles(titles ...string) []TopicInput {
	in := make([]TopicInput, len(titles))
	for i, title := range titles {
		in[i] = TopicInput{Title: title}
	}
	return in
}

// NormalizeTopicInputs 去除首尾空白并丢弃空标题, 同一课程内标题不可重复
func NormalizeTopicInputs(in []TopicInput) ([]TopicInput, error) {
	out := make([]TopicInput, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t.Title = strings.TrimSpace(t.Title)
		t.ID = strings.TrimSpace(t.ID)
		if t.Title == "" {
			continue
		}
		if seen[t.Title] {
			return nil, util.ErrTopicExists
		}
		seen[t.Title] = true
		out = append(out, t)
	}
	return out, nil
}

// NewAdminTopics 新建课程时的主题目录
func NewAdminTopics(in []TopicInput, now time.Time) []model.Topic {
	topics := make([]model.Topic, 0, len(in))
	for _, t := range in {
		topics = append(topics, model.Topic{
			ID:      model.NewTopicID(),
			Title:   t.Title,
			AddedBy: model.AddedByAdmin,
			AddedAt: now,
		})
	}
	return topics
}

// ResolveTopicEdits 计算编辑后的主题目录, 并返回被移除的旧主题。
// 匹配顺序: 已知ID -> 相同标题 -> 同一位置(仅限未被占用的旧主题) -> 新主题。
// 输入需先经过 NormalizeTopicInputs。
func ResolveTopicEdits(old []model.Topic, in []TopicInput, now time.Time) ([]model.Topic, []model.Topic) {
	claimed := make([]bool, len(old))
	assigned := make([]int, len(in))
	for i := range assigned {
		assigned[i] = -1
	}

	byID := make(map[string]int, len(old))
	for i, t := range old {
		if t.ID != "" {
			byID[t.ID] = i
		}
	}

	for i, t := range in {
		if t.ID == "" {
			continue
		}
		if j, ok := byID[t.ID]; ok && !claimed[j] {
			claimed[j] = true
			assigned[i] = j
		}
	}

	for i, t := range in {
		if assigned[i] >= 0 || t.ID != "" {
			continue
		}
		for j, o := range old {
			if !claimed[j] && o.Title == t.Title {
				claimed[j] = true
				assigned[i] = j
				break
			}
		}
	}

	// 仅标题的客户端按位置改名
	for i, t := range in {
		if assigned[i] >= 0 || t.ID != "" {
			continue
		}
		if i < len(old) && !claimed[i] {
			claimed[i] = true
			assigned[i] = i
		}
	}

	topics := make([]model.Topic, 0, len(in))
	for i, t := range in {
		if j := assigned[i]; j >= 0 {
			topic := old[j]
			if topic.ID == "" {
				topic.ID = model.NewTopicID()
			}
			topic.Title = t.Title
			topics = append(topics, topic)
			continue
		}
		topics = append(topics, model.Topic{
			ID:      model.NewTopicID(),
			Title:   t.Title,
			AddedBy: model.AddedByAdmin,
			AddedAt: now,
		})
	}

	var removed []model.Topic
	for j, o := range old {
		if !claimed[j] {
			removed = append(removed, o)
		}
	}
	return topics, removed
}

// ReconcileTopics 使报告主题与课程目录按位置、按标识对齐。
// 完成状态与日期随匹配到的条目保留; 未匹配的报告条目被丢弃。
func ReconcileTopics(course []model.Topic, report []model.TopicProgress) ([]model.TopicProgress, bool) {
	claimed := make([]bool, len(report))
	byID := make(map[string]int, len(report))
	for i, p := range report {
		if p.TopicID != "" {
			if _, dup := byID[p.TopicID]; !dup {
				byID[p.TopicID] = i
			}
		}
	}

	out := make([]model.TopicProgress, 0, len(course))
	for _, t := range course {
		match := -1
		if j, ok := byID[t.ID]; ok && t.ID != "" && !claimed[j] {
			match = j
		} else {
			for j, p := range report {
				if !claimed[j] && p.TopicTitle == t.Title && (p.TopicID == "" || p.TopicID == t.ID || !hasTopicID(course, p.TopicID)) {
					match = j
					break
				}
			}
		}

		entry := model.TopicProgress{AddedAt: t.AddedAt}
		if match >= 0 {
			claimed[match] = true
			entry = report[match]
		}
		entry.TopicID = t.ID
		entry.TopicTitle = t.Title
		entry.AddedBy = t.AddedBy
		entry.AddedByStudent = t.AddedByStudent
		if entry.AddedAt.IsZero() {
			entry.AddedAt = t.AddedAt
		}
		if !entry.IsChecked {
			entry.Date = ""
		}
		out = append(out, entry)
	}

	return out, !sameProgress(out, report)
}

func hasTopicID(course []model.Topic, id string) bool {
	for _, t := range course {
		if t.ID == id {
			return true
		}
	}
	return false
}

func sameProgress(a, b []model.TopicProgress) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.TopicID != y.TopicID || x.TopicTitle != y.TopicTitle || x.IsChecked != y.IsChecked ||
			x.Date != y.Date || x.AddedBy != y.AddedBy || !x.AddedAt.Equal(y.AddedAt) ||
			!sameOwner(x.AddedByStudent, y.AddedByStudent) {
			return false
		}
	}
	return true
}

func sameOwner(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// NewReportTopics 新选课时从课程目录复制, 全部未完成
func NewReportTopics(course []model.Topic) []model.TopicProgress {
	topics, _ := ReconcileTopics(course, nil)
	return topics
}

// CanRemoveTopic 只有学生添加的主题可以移除: 任意管理员均可移除, 学生仅可移除自己添加的
func CanRemoveTopic(topic model.Topic, p util.Principal) error {
	if topic.AddedBy != model.AddedByStudent {
		return util.ErrTopicRemovalForbidden
	}
	switch {
	case p.IsStaff():
		return nil
	case p.IsStudent() && topic.AddedByStudent != nil && *topic.AddedByStudent == p.ID:
		return nil
	}
	return util.ErrTopicRemovalForbidden
}
