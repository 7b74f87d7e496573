package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HandleError 按错误类型输出响应, 未识别的错误记录日志后返回500
func HandleError(c *gin.Context, err error) {
	code := StatusOf(err)
	if code == 0 {
		LogInternalError(c, err)
		return
	}
	if code == http.StatusNotFound && errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "")
		return
	}
	Error(c, code, rootMessage(err))
}

// rootMessage 取最内层业务错误的文案, 避免把包装信息暴露给调用方
func rootMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	for _, sentinel := range []error{
		ErrStaffNotFound, ErrStudentNotFound, ErrCourseNotFound, ErrReportNotFound, ErrTopicNotFound,
		ErrInvalidCredentials, ErrAccountBlocked, ErrPermissionDenied, ErrTopicRemovalForbidden,
		ErrEmailExists, ErrStudentExists, ErrTopicExists, ErrTokenRevoked,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
