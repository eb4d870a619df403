package util

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffUpload(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	tests := []struct {
		name    string
		data    []byte
		kind    UploadKind
		want    string
		wantErr bool
	}{
		{"png image", png, UploadQuestionImage, "image/png", false},
		{"svg as text", svg, UploadQuestionImage, "text/xml; charset=utf-8", false},
		{"binary recording", []byte{0x00, 0x01, 0x02, 0x03}, UploadRecording, MimeOctetStream, false},
		{"text recording", []byte("not a video"), UploadRecording, "text/plain; charset=utf-8", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := bytes.NewReader(tt.data)
			got, err := SniffUpload(src, tt.kind)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// 读完后仍能完整读出
			rest, err := io.ReadAll(src)
			require.NoError(t, err)
			assert.Equal(t, tt.data, rest)
		})
	}
}
