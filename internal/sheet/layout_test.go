package sheet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cdmi123/progress-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineWrap 每个 "|" 分隔一行
func lineWrap(text string, _ float64) []string {
	return strings.Split(text, "|")
}

func topics(n int) []model.TopicProgress {
	out := make([]model.TopicProgress, n)
	for i := range out {
		out[i] = model.TopicProgress{TopicTitle: fmt.Sprintf("Topic %d", i+1)}
	}
	return out
}

func TestRowHeight(t *testing.T) {
	assert.Equal(t, MinRowHeight, RowHeight(0))
	assert.Equal(t, MinRowHeight, RowHeight(1))
	assert.Equal(t, 34.0, RowHeight(2))
	assert.Equal(t, 46.0, RowHeight(3))
}

func TestTableGeometry(t *testing.T) {
	assert.Equal(t, 520.0, TableWidth())
	assert.Equal(t, Margin, columnX(0))
	assert.Equal(t, 80.0, columnX(1))
	assert.Equal(t, 480.0, columnX(4))
}

func TestLayoutEmpty(t *testing.T) {
	pages := Layout(nil, lineWrap)
	require.Len(t, pages, 1)
	assert.True(t, pages[0].Empty)
	assert.Empty(t, pages[0].Rows)
	assert.Equal(t, FirstTableTop, pages[0].TableTop)
}

func TestLayoutSinglePage(t *testing.T) {
	in := topics(3)
	in[1].IsChecked = true
	in[1].Date = "2024-01-02"
	in[2].TopicTitle = "Line one|Line two"

	pages := Layout(in, lineWrap)
	require.Len(t, pages, 1)
	rows := pages[0].Rows
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"1", "2", "3"}, []string{rows[0].No, rows[1].No, rows[2].No})
	assert.Equal(t, Placeholder, rows[0].Date)
	assert.Equal(t, "2024-01-02", rows[1].Date)
	assert.Equal(t, RowHeight(2), rows[2].Height)
	assert.Equal(t, []bool{true, false, true}, []bool{rows[0].Shade, rows[1].Shade, rows[2].Shade})

	assert.Equal(t, FirstTableTop+pages[0].Header.Height, rows[0].Y)
	assert.Equal(t, rows[0].Y+rows[0].Height, rows[1].Y)
}

func TestLayoutPaginates(t *testing.T) {
	pages := Layout(topics(30), lineWrap)
	require.Len(t, pages, 2)

	first, second := pages[0], pages[1]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)
	assert.Len(t, first.Rows, 25)
	assert.Len(t, second.Rows, 5)

	// 表头在每页重复
	assert.Equal(t, []string{"Topic Name"}, second.Header.Lines)
	assert.Equal(t, TableTop, second.TableTop)
	assert.Equal(t, TableTop+second.Header.Height, second.Rows[0].Y)
	assert.Equal(t, "26", second.Rows[0].No)
	assert.False(t, second.Rows[0].Shade)

	for _, p := range pages {
		last := p.Rows[len(p.Rows)-1]
		assert.LessOrEqual(t, last.Y+last.Height, ContentBottom)
	}
}

func TestLayoutOversizedRowStillPlaced(t *testing.T) {
	tall := model.TopicProgress{TopicTitle: strings.Repeat("x|", 70) + "x"}
	pages := Layout([]model.TopicProgress{tall}, lineWrap)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Rows, 1)
}
