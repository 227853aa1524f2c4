package common

import (
	"strings"

	"parallel/internal/model"
)

// MediaFileType is the storage category of an uploaded payload.
type MediaFileType string

const (
	MediaFileTypeImage MediaFileType = "image"
	MediaFileTypeVideo MediaFileType = "video"
	MediaFileTypeVoice MediaFileType = "voice"
)

// String returns the string representation
func (mft MediaFileType) String() string {
	return string(mft)
}

// IsValid checks if the media file type is valid
func (mft MediaFileType) IsValid() bool {
	return mft == MediaFileTypeImage || mft == MediaFileTypeVideo || mft == MediaFileTypeVoice
}

func DetectFileType(mimeType string) MediaFileType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "image/") {
		return MediaFileTypeImage
	}
	if strings.HasPrefix(lowerMimeType, "video/") {
		return MediaFileTypeVideo
	}
	if strings.HasPrefix(lowerMimeType, "audio/") {
		return MediaFileTypeVoice
	}
	return MediaFileTypeImage // Default fallback
}

// MediaFileTypeFor maps a message type to the storage category of its payload.
func MediaFileTypeFor(t model.MessageType) MediaFileType {
	switch t {
	case model.MessageTypeVideo:
		return MediaFileTypeVideo
	case model.MessageTypeVoice:
		return MediaFileTypeVoice
	}
	return MediaFileTypeImage
}
