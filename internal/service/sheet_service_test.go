package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cdmi123/progress-report/internal/sheet"
	"github.com/cdmi123/progress-report/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSheetService(f *fixture, root string) *SheetService {
	storage := &StorageService{
		Provider: &LocalStorageProvider{Root: root},
		Prefix:   "sheets",
		Now:      func() time.Time { return fixedNow },
	}
	return NewSheetService(f.students, f.courses, f.reports, sheet.NewRenderer("TEST INSTITUTE"), storage)
}

func TestSheetRender(t *testing.T) {
	f := newFixture(t)
	svc := newSheetService(f, t.TempDir())
	course := f.newCourse(t, "Node.js", "Intro", "Routing")
	student := f.newStudent(t, f.admin, "R1", course.ID)

	file, err := svc.Render(f.ctx, util.StudentPrincipal(student), student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
	assert.Equal(t, "Student R1_Node.js_Sheet.pdf", file.Filename)
	assert.Equal(t, 1, file.Pages)
}

func TestSheetRenderMissingEntities(t *testing.T) {
	f := newFixture(t)
	svc := newSheetService(f, t.TempDir())
	course := f.newCourse(t, "Go", "A")
	student := f.newStudent(t, f.admin, "R1", course.ID)

	_, err := svc.Render(f.ctx, f.admin, 999, course.ID)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
	_, err = svc.Render(f.ctx, f.admin, student.ID, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	other := f.newStudent(t, f.admin, "R2", course.ID)
	_, err = svc.Render(f.ctx, util.StudentPrincipal(other), student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestSheetRenderWithoutReport(t *testing.T) {
	f := newFixture(t)
	svc := newSheetService(f, t.TempDir())
	enrolled := f.newCourse(t, "Go", "A")
	other := f.newCourse(t, "Rust", "B")
	student := f.newStudent(t, f.admin, "R1", enrolled.ID)

	file, err := svc.Render(f.ctx, f.admin, student.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, file.Pages)
}

func TestSheetArchive(t *testing.T) {
	f := newFixture(t)
	root := t.TempDir()
	svc := newSheetService(f, root)
	course := f.newCourse(t, "Go", "A")
	student := f.newStudent(t, f.admin, "R1", course.ID)

	_, err := svc.Archive(f.ctx, util.StudentPrincipal(student), student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	url, err := svc.Archive(f.ctx, f.admin, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/sheets/"))

	data, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	p := &LocalStorageProvider{Root: t.TempDir()}
	_, err := p.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)

	url, err := p.Put(context.Background(), "a/b.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a/b.txt", url)
	assert.NoError(t, p.Delete(context.Background(), "a/b.txt"))
}
