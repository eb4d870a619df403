package util

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UploadKind 上传文件类别，决定允许的内容类型
type UploadKind int

const (
	UploadQuestionImage UploadKind = iota
	UploadRecording
)

// svg 会被识别为 text/xml 或 text/plain，由调用方结合扩展名判断
var uploadContentTypes = map[UploadKind][]string{
	UploadQuestionImage: {MimeImage, "text/xml", "text/plain"},
	UploadRecording:     {MimeVideo, MimeOctetStream},
}

// SniffUpload 按文件头判断内容类型，读完后回到文件开头
func SniffUpload(src io.ReadSeeker, kind UploadKind) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	mimeType := http.DetectContentType(head[:n])
	for _, allowed := range uploadContentTypes[kind] {
		if strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}
	return mimeType, fmt.Errorf("unexpected content type %s", mimeType)
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeImage)
}
