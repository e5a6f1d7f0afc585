package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

var AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
