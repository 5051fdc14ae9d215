package upload

import (
	"errors"
	"testing"

	"github.com/hitoshi/picboard/internal/model"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(DefaultMaxSize)

	tests := []struct {
		name      string
		filename  string
		mediaType string
		size      int64
		wantCode  string // 空文字列なら受理
	}{
		{
			name:      "png受理",
			filename:  "photo.png",
			mediaType: "image/png",
			size:      2 * 1024 * 1024,
			wantCode:  "",
		},
		{
			name:      "jpeg受理",
			filename:  "photo.jpeg",
			mediaType: "image/jpeg",
			size:      1024,
			wantCode:  "",
		},
		{
			name:      "jpg受理",
			filename:  "photo.jpg",
			mediaType: "image/jpeg",
			size:      1024,
			wantCode:  "",
		},
		{
			name:      "gif受理",
			filename:  "anim.gif",
			mediaType: "image/gif",
			size:      1024,
			wantCode:  "",
		},
		{
			name:      "大文字拡張子は小文字化して受理",
			filename:  "PHOTO.PNG",
			mediaType: "image/png",
			size:      1024,
			wantCode:  "",
		},
		{
			name:      "上限ちょうどは受理",
			filename:  "big.png",
			mediaType: "image/png",
			size:      DefaultMaxSize,
			wantCode:  "",
		},
		{
			name:      "許可外拡張子は拒否",
			filename:  "document.pdf",
			mediaType: "application/pdf",
			size:      1024,
			wantCode:  model.ErrCodeUnsupportedMediaType,
		},
		{
			name:      "pngに偽装したテキストはメディアタイプで拒否",
			filename:  "note.png",
			mediaType: "text/plain",
			size:      1024,
			wantCode:  model.ErrCodeUnsupportedMediaType,
		},
		{
			name:      "メディアタイプだけ正しくても拡張子で拒否",
			filename:  "photo.bmp",
			mediaType: "image/png",
			size:      1024,
			wantCode:  model.ErrCodeUnsupportedMediaType,
		},
		{
			name:      "拡張子なしは拒否",
			filename:  "photo",
			mediaType: "image/png",
			size:      1024,
			wantCode:  model.ErrCodeUnsupportedMediaType,
		},
		{
			name:      "image/webpは許可集合外なので拒否",
			filename:  "photo.png",
			mediaType: "image/webp",
			size:      1024,
			wantCode:  model.ErrCodeUnsupportedMediaType,
		},
		{
			name:      "不正なメディアタイプ文字列は拒否",
			filename:  "photo.png",
			mediaType: "not a media type",
			size:      1024,
			wantCode:  model.ErrCodeUnsupportedMediaType,
		},
		{
			name:      "上限超過は拒否",
			filename:  "big.png",
			mediaType: "image/png",
			size:      DefaultMaxSize + 1,
			wantCode:  model.ErrCodePayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.filename, tt.mediaType, tt.size)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Validate() = %v, want *model.APIError", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestValidator_Validate_TypeCheckedBeforeSize(t *testing.T) {
	// 形式とサイズの両方が不正な場合、形式のエラーを優先する
	v := NewValidator(DefaultMaxSize)

	err := v.Validate("huge.txt", "text/plain", DefaultMaxSize*2)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Validate() = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeUnsupportedMediaType {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUnsupportedMediaType)
	}
}

func TestNewValidator_DefaultsMaxSize(t *testing.T) {
	v := NewValidator(0)
	if v.MaxSize() != DefaultMaxSize {
		t.Errorf("MaxSize() = %d, want %d", v.MaxSize(), DefaultMaxSize)
	}

	v = NewValidator(1024)
	if v.MaxSize() != 1024 {
		t.Errorf("MaxSize() = %d, want %d", v.MaxSize(), 1024)
	}
}
