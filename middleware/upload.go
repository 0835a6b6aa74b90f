package middleware

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const MaxAudioUploadBytes = 50 << 20

var (
	audioExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a"}
	audioMimeTypes  = []string{"audio/mpeg", "audio/mp3", "audio/wav", "audio/x-wav", "audio/ogg", "audio/flac", "audio/mp4", "application/octet-stream"}
)

// ValidateAudioUpload checks size, extension and declared content type of an
// uploaded track. The declared type is client supplied and only filters
// obvious mistakes.
func ValidateAudioUpload(file *multipart.FileHeader) error {
	if file.Size == 0 {
		return fmt.Errorf("file is empty")
	}
	if file.Size > MaxAudioUploadBytes {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", MaxAudioUploadBytes)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !contains(audioExtensions, ext) {
		return fmt.Errorf("file extension %s is not allowed", ext)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !contains(audioMimeTypes, contentType) {
		return fmt.Errorf("file type %s is not allowed", contentType)
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
