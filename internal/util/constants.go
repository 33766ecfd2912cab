package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

// 徽章等级步长：每 100 XP 一枚徽章
const XPPerBadge = 100
