package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/cdmi123/progress-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFindAllByContactOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(NewDB())

	var want []uint
	for i := 0; i < 8; i++ {
		contact := "555-0000"
		if i%3 == 0 {
			contact = "555-1111"
		}
		s := &model.Student{Name: fmt.Sprint("S", i), Email: fmt.Sprintf("s%d@test.io", i), RegNo: fmt.Sprint("R", i), Contact: contact}
		require.NoError(t, repo.Create(ctx, s))
		if contact == "555-0000" {
			want = append(want, s.ID)
		}
	}

	for round := 0; round < 5; round++ {
		found, err := repo.FindAllByContact(ctx, "555-0000")
		require.NoError(t, err)
		ids := make([]uint, 0, len(found))
		for _, s := range found {
			ids = append(ids, s.ID)
		}
		assert.Equal(t, want, ids)
	}

	found, err := repo.FindAllByContact(ctx, "555-9999")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStudentCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(NewDB())

	require.NoError(t, repo.Create(ctx, &model.Student{Email: "a@test.io", RegNo: "R1", Contact: "555"}))
	err := repo.Create(ctx, &model.Student{Email: "a@test.io", RegNo: "R2", Contact: "555"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
