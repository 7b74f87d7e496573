package util

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrStaffNotFound         = errors.New("Admin not found")
	ErrStudentNotFound       = errors.New("Student not found")
	ErrCourseNotFound        = errors.New("Course not found")
	ErrReportNotFound        = errors.New("Report not found")
	ErrTopicNotFound         = errors.New("Topic not found")
	ErrInvalidCredentials    = errors.New("Invalid email or password")
	ErrAccountBlocked        = errors.New("Your account is blocked. Please contact administrator.")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrTopicRemovalForbidden = errors.New("only topics added by students can be removed")
	ErrEmailExists           = errors.New("Email already exists")
	ErrStudentExists         = errors.New("Email or registration number already exists")
	ErrTopicExists           = errors.New("Topic already exists")
	ErrTokenRevoked          = errors.New("token has been revoked")
)

// ValidationError 请求参数校验失败, 不会修改任何状态
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// StatusOf 将业务错误映射为HTTP状态码, 0 表示未知错误
func StatusOf(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrStaffNotFound),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrReportNotFound),
		errors.Is(err, ErrTopicNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrStudentExists),
		errors.Is(err, ErrTopicExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountBlocked),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrTopicRemovalForbidden):
		return http.StatusForbidden
	}
	return 0
}
