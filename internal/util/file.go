package util

import (
	"fmt"
	"net/http"
	"strings"
)

// ImageMimeTypes 签名图片允许的格式
var ImageMimeTypes = []string{"image/png", "image/jpeg", "image/webp"}

// DetectImageType 按文件头识别图片类型, 不在 allowed 中时返回错误
func DetectImageType(raw []byte, allowed []string) (string, error) {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)

	for _, t := range allowed {
		if strings.HasPrefix(mimeType, t) {
			return t, nil
		}
	}
	return mimeType, fmt.Errorf("unsupported image type: %s", mimeType)
}
