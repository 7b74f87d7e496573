package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/repository/memory"
	"github.com/cdmi123/progress-report/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func setup(t *testing.T) (*commandLine, *memory.DB) {
	t.Helper()
	db := memory.NewDB()
	courses := memory.NewCourseRepository(db)
	students := memory.NewStudentRepository(db)
	reports := memory.NewReportRepository(db)
	return &commandLine{
		staff: service.NewStaffService(memory.NewStaffRepository(db)),
		sync:  service.NewSyncService(courses, students, reports),
		out:   &bytes.Buffer{},
	}, db
}

func Test_commandLine_createStaff(t *testing.T) {
	cli, db := setup(t)
	staffRepo := memory.NewStaffRepository(db)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"create-staff"}, wantErr: errHelp},
		{name: "missing email", args: []string{"create-staff", "-name", "Root"}, pwd: "secret1", wantErr: errHelp},
		{name: "no password", args: []string{"create-staff", "-name", "Root", "-email", "root@test.io"}, wantErr: errHelp},
		{name: "create", args: []string{"create-staff", "-name", "Root", "-email", "root@test.io"}, pwd: "secret1"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		pwd := tt.pwd
		readPasswordFunc = func(int) ([]byte, error) {
			return []byte(pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
		})
	}

	staff, err := staffRepo.FindByEmail(context.Background(), "root@test.io")
	require.NoError(t, err)
	assert.Equal(t, model.RoleGlobal, staff.Role)
	assert.NotEqual(t, "secret1", staff.Password)
}

func Test_commandLine_createStaffDuplicate(t *testing.T) {
	cli, _ := setup(t)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("secret1"), nil }

	args := []string{"admin", "create-staff", "-name", "Root", "-email", "root@test.io", "-faculty"}
	require.NoError(t, cli.run(args))
	assert.Error(t, cli.run(args))
}

func Test_commandLine_reconcile(t *testing.T) {
	cli, db := setup(t)
	ctx := context.Background()
	courses := memory.NewCourseRepository(db)
	students := memory.NewStudentRepository(db)
	reports := memory.NewReportRepository(db)

	course := &model.Course{Name: "Go", Topics: []model.Topic{{ID: "t1", Title: "Basics", AddedBy: model.AddedByAdmin}}}
	require.NoError(t, courses.Create(ctx, course))
	student := &model.Student{Name: "Ann", Email: "ann@test.io", RegNo: "R1", Contact: "555", Courses: []model.Course{*course}}
	require.NoError(t, students.Create(ctx, student))

	require.NoError(t, cli.run([]string{"admin", "reconcile"}))

	report, err := reports.Find(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, report.Topics, 1)
	assert.Equal(t, "Basics", report.Topics[0].TopicTitle)
	assert.False(t, report.Topics[0].IsChecked)
	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "reports created: 1")
}
