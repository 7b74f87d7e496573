package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cdmi123/progress-report/internal/util"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Students"

var rosterHeaders = []string{"Name", "Reg No", "Email", "Contact", "Faculty", "Start Date", "End Date", "Status", "Course", "Completed", "Topics", "Progress %"}

// RosterService 导出学生进度表格
type RosterService struct {
	Students *StudentService
}

func NewRosterService(students *StudentService) *RosterService {
	return &RosterService{Students: students}
}

// RosterFilename students_<status>_<时间戳>.xlsx
func RosterFilename(status string, now time.Time) string {
	if status == "" {
		status = "Running"
	}
	return fmt.Sprintf("students_%s_%s.xlsx", strings.ToLower(status), now.Format("20060102_150405"))
}

// Export 每个 (学生, 课程) 一行, 无课程的学生单独一行
func (s *RosterService) Export(ctx context.Context, p util.Principal, status string, w io.Writer) (int, error) {
	students, err := s.Students.List(ctx, p, status)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "create sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, pkgerrors.Wrap(err, "delete default sheet")
	}

	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeaders); err != nil {
		return 0, pkgerrors.Wrap(err, "write header")
	}
	last, err := excelize.CoordinatesToCellName(len(rosterHeaders), 1)
	if err != nil {
		return 0, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "create header style")
	}
	if err := f.SetCellStyle(rosterSheet, "A1", last, style); err != nil {
		return 0, pkgerrors.Wrap(err, "style header")
	}

	row := 2
	for _, st := range students {
		faculty := ""
		if st.Faculty != nil {
			faculty = st.Faculty.Name
		}
		base := []interface{}{st.Name, st.RegNo, st.Email, st.Contact, faculty, st.StartDate, st.EndDate, st.Status}

		lines := [][]interface{}{base}
		if len(st.CourseProgress) > 0 {
			lines = lines[:0]
			for _, cp := range st.CourseProgress {
				lines = append(lines, append(append([]interface{}{}, base...), cp.CourseName, cp.Checked, cp.Total, cp.Percent))
			}
		}
		for i := range lines {
			if err := f.SetSheetRow(rosterSheet, fmt.Sprintf("A%d", row), &lines[i]); err != nil {
				return 0, pkgerrors.Wrapf(err, "write row %d", row)
			}
			row++
		}
	}
	for _, col := range []struct {
		name  string
		width float64
	}{{"A", 24}, {"C", 28}, {"I", 24}} {
		if err := f.SetColWidth(rosterSheet, col.name, col.name, col.width); err != nil {
			return 0, pkgerrors.Wrap(err, "set column width")
		}
	}

	if err := f.Write(w); err != nil {
		return 0, pkgerrors.Wrap(err, "write roster")
	}
	return row - 2, nil
}
