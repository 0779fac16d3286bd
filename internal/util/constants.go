package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"

	// ChunkSize 分块上传的固定分块大小（30 MiB）
	ChunkSize = 30 * 1024 * 1024
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}

	AllowedMaterialMimes = []string{MimePDF, MimeImage, "text/plain", "application/zip",
		"application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
)
