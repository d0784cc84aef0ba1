package consts

// SizeOriginal 表示不缩放，直接返回（裁剪后的）原图。
const SizeOriginal = -1

// 头像尺寸（正方形，像素）
const (
	IconSizeSmall  = 32
	IconSizeMedium = 64
	IconSizeLarge  = 128
)

// 图片尺寸（正方形，像素），large 为原始尺寸
const (
	ImageSizeSmall  = 128
	ImageSizeMedium = 256
	ImageSizeLarge  = SizeOriginal
)

// DefaultIcon 新用户的默认头像 id
const DefaultIcon = "default"
