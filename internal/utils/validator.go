package utils

import (
	"io"
	"net/http"
	"regexp"
)

var (
	userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{2,16}$`)
	assetIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// ValidateUserName 用户名只允许 2~16 位英文大小写、数字和下划线。
func ValidateUserName(name string) (bool, string) {
	if !userNamePattern.MatchString(name) {
		return false, "用户名只能包含 2~16 位英文大小写、数字和下划线"
	}
	return true, ""
}

// ValidateAssetID 校验图片/头像 id，防止路径注入。
func ValidateAssetID(id string) bool {
	return assetIDPattern.MatchString(id)
}

// DetectImageType 嗅探内容的真实类型并将读取位置复位，返回值如 image/png。
func DetectImageType(reader io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

// ValidateImageContent 校验内容真实类型属于 allowed 之一，返回检测到的类型。
func ValidateImageContent(reader io.ReadSeeker, allowed ...string) (string, bool) {
	contentType, err := DetectImageType(reader)
	if err != nil {
		return "", false
	}
	for _, a := range allowed {
		if a == contentType {
			return contentType, true
		}
	}
	return contentType, false
}
