package util

import (
	"path"
	"strings"
)

func ExtFromFilenameOrMime(filename, mimeType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext != "" {
		return ext
	}
	switch strings.ToLower(mimeType) {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
