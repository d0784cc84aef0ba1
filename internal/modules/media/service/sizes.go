package service

import "photo-timeline-server/internal/consts"

// IconSize 头像尺寸：s/m/l，缺省为 s，无法识别时取最小尺寸。
func IconSize(token string) int {
	switch token {
	case "m":
		return consts.IconSizeMedium
	case "l":
		return consts.IconSizeLarge
	default:
		return consts.IconSizeSmall
	}
}

// ImageSize 图片尺寸：s/m/l，缺省为 l（原尺寸），无法识别时取最小尺寸。
func ImageSize(token string) int {
	switch token {
	case "", "l":
		return consts.ImageSizeLarge
	case "m":
		return consts.ImageSizeMedium
	default:
		return consts.ImageSizeSmall
	}
}
