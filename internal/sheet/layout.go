// Package sheet 将学生某门课程的报告渲染为可打印、可签字的 PDF 进度表。
// 渲染分两步: Layout 先按字体度量把所有行分配到各页, 绘制阶段再根据总页数写入 "Page X of N"。
package sheet

import (
	"math"
	"strconv"

	"github.com/cdmi123/progress-report/internal/model"
)

// A4 纵向, 单位 pt
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0

	RuleLeft  = 40.0
	RuleRight = 550.0

	FontSize     = 10.0
	LineHeight   = 12.0
	CellPadding  = 5.0
	MinRowHeight = 25.0

	// 第一页表格位于标题下方, 后续页从页边距开始
	FirstTableTop = 108.0
	TableTop      = Margin
	ContentBottom = PageHeight - Margin - 20

	PageNumberY = 820.0

	Placeholder  = "----"
	EmptyMessage = "No topics found"
)

// 列顺序与宽度固定: No, Topic Name, Date, Student Sign, Supervisor Sign
var (
	ColumnWidths  = [5]float64{40, 240, 80, 80, 80}
	ColumnHeaders = [5]string{"No", "Topic Name", "Date", "Student Sign", "Supervisor Sign"}
)

const (
	colNo = iota
	colTopic
	colDate
	colStudentSign
	colSupervisorSign
)

// TableWidth 表格总宽
func TableWidth() float64 {
	w := 0.0
	for _, cw := range ColumnWidths {
		w += cw
	}
	return w
}

// columnX 第 i 列左边界
func columnX(i int) float64 {
	x := Margin
	for j := 0; j < i; j++ {
		x += ColumnWidths[j]
	}
	return x
}

// Wrapper 按当前字体把文本拆成不超过 width 的多行
type Wrapper func(text string, width float64) []string

// Row 已排版的一行
type Row struct {
	No     string
	Lines  []string
	Date   string
	Y      float64
	Height float64
	Shade  bool
}

// Page 一页的排版结果
type Page struct {
	Number   int
	TableTop float64
	Header   Row
	Rows     []Row
	// Empty 为 true 时在表头下方输出 EmptyMessage
	Empty bool
}

// RowHeight max(最小行高, 文本高度 + 上下内边距)
func RowHeight(lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	return math.Max(MinRowHeight, float64(lines)*LineHeight+2*CellPadding)
}

func topicWidth() float64 {
	return ColumnWidths[colTopic] - 2*CellPadding
}

func headerRow(y float64, wrap Wrapper) Row {
	lines := wrap(ColumnHeaders[colTopic], topicWidth())
	return Row{Lines: lines, Y: y, Height: RowHeight(len(lines))}
}

func newPage(number int, top float64, wrap Wrapper) *Page {
	return &Page{Number: number, TableTop: top, Header: headerRow(top, wrap)}
}

// Layout 计算所有行的位置与分页, 每页重复表头
func Layout(topics []model.TopicProgress, wrap Wrapper) []Page {
	page := newPage(1, FirstTableTop, wrap)
	if len(topics) == 0 {
		page.Empty = true
		return []Page{*page}
	}

	var pages []Page
	y := page.TableTop + page.Header.Height
	for i, t := range topics {
		lines := wrap(t.TopicTitle, topicWidth())
		h := RowHeight(len(lines))

		if y+h > ContentBottom && len(page.Rows) > 0 {
			pages = append(pages, *page)
			page = newPage(page.Number+1, TableTop, wrap)
			y = page.TableTop + page.Header.Height
		}

		date := t.Date
		if date == "" {
			date = Placeholder
		}
		page.Rows = append(page.Rows, Row{
			No:     strconv.Itoa(i + 1),
			Lines:  lines,
			Date:   date,
			Y:      y,
			Height: h,
			Shade:  i%2 == 0,
		})
		y += h
	}
	return append(pages, *page)
}
