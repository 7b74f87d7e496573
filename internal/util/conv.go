package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseID 解析路径中的ID参数
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, NewValidationError("invalid id: " + s)
	}
	return uint(id), nil
}

// IsDate 校验 YYYY-MM-DD 格式
func IsDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}
