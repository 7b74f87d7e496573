package util

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{fmt.Errorf("load: %w", ErrStudentNotFound), http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{ErrTopicExists, http.StatusConflict},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrTopicRemovalForbidden, http.StatusForbidden},
		{ErrAccountBlocked, http.StatusForbidden},
		{fmt.Errorf("boom"), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

func TestRootMessage(t *testing.T) {
	err := fmt.Errorf("save student: %w", ErrStudentExists)
	assert.Equal(t, ErrStudentExists.Error(), rootMessage(err))
	assert.Equal(t, "Date must be set", rootMessage(NewValidationError("Date must be set")))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, s := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(s)
		assert.Error(t, err, s)
	}
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2024-03-15"))
	assert.False(t, IsDate("15/03/2024"))
	assert.False(t, IsDate("2024-13-01"))
	assert.False(t, IsDate(""))
}

func TestDetectImageType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))

	ct, err := DetectImageType(buf.Bytes(), ImageMimeTypes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = DetectImageType([]byte("plain text"), ImageMimeTypes)
	assert.Error(t, err)
}
