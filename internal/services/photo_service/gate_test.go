package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpload(t *testing.T) {
	policy := GatePolicy{MaxSize: DefaultMaxUploadSize}

	tests := []struct {
		name    string
		file    FileInfo
		policy  GatePolicy
		wantMsg string
	}{
		{
			name:    "no file",
			file:    FileInfo{},
			policy:  policy,
			wantMsg: "No file uploaded",
		},
		{
			name:    "15 MiB image",
			file:    FileInfo{Present: true, ContentType: "image/png", Size: 15 << 20},
			policy:  policy,
			wantMsg: "File too large. Maximum size is 10MB.",
		},
		{
			name:    "plain text",
			file:    FileInfo{Present: true, ContentType: "text/plain", Size: 100},
			policy:  policy,
			wantMsg: "Not an image! Please upload only images.",
		},
		{
			name:   "5 MiB png",
			file:   FileInfo{Present: true, ContentType: "image/png", Size: 5 << 20},
			policy: policy,
		},
		{
			name:   "exactly at the limit",
			file:   FileInfo{Present: true, ContentType: "image/jpeg", Size: 10 << 20},
			policy: policy,
		},
		{
			name:   "uppercase type with params",
			file:   FileInfo{Present: true, ContentType: "IMAGE/JPEG; charset=binary", Size: 1},
			policy: policy,
		},
		{
			name:   "exotic subtype in lenient mode",
			file:   FileInfo{Present: true, ContentType: "image/heic", Size: 1},
			policy: policy,
		},
		{
			name:    "exotic subtype in strict mode",
			file:    FileInfo{Present: true, ContentType: "image/heic", Size: 1},
			policy:  GatePolicy{MaxSize: DefaultMaxUploadSize, Strict: true},
			wantMsg: "Only image files are allowed!",
		},
		{
			name:   "webp in strict mode",
			file:   FileInfo{Present: true, ContentType: "image/webp", Size: 1},
			policy: GatePolicy{Strict: true},
		},
		{
			name:    "malformed type with path segments",
			file:    FileInfo{Present: true, ContentType: "image/x/../../astro-photos/0b7c.png", Size: 1},
			policy:  policy,
			wantMsg: "Not an image! Please upload only images.",
		},
		{
			name:    "image prefix without subtype",
			file:    FileInfo{Present: true, ContentType: "image/", Size: 1},
			policy:  policy,
			wantMsg: "Not an image! Please upload only images.",
		},
		{
			name:    "custom limit",
			file:    FileInfo{Present: true, ContentType: "image/png", Size: 3 << 20},
			policy:  GatePolicy{MaxSize: 2 << 20},
			wantMsg: "File too large. Maximum size is 2MB.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpload(tt.file, tt.policy)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.wantMsg, inputErr.Message)
		})
	}
}
