// Package upload は画像アップロードの検証とファイル保存領域への永続化を提供する。
//
// Validator は宣言されたファイル名・メディアタイプ・バイト長のみで受理可否を判定する
// 純粋な判定器であり、拒否されたアップロードのバイト列が保存領域に書き込まれることはない。
// DiskStore は受理済みアップロードを衝突しない名前でディスクに書き込み、
// 配信可能な相対パス参照を発行する。
package upload

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/hitoshi/picboard/internal/model"
)

// DefaultMaxSize はアップロードサイズ上限のデフォルト値（5MiB）。
const DefaultMaxSize int64 = 5 * 1024 * 1024

// allowedFormats は許可される画像形式。
// 拡張子とメディアタイプのサブタイプの両方がこの集合に含まれる必要がある。
var allowedFormats = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
}

// Validator はアップロードのメタデータ検証を行う。
type Validator struct {
	maxSize int64
}

// NewValidator はValidatorを生成する。
// maxSizeが0以下の場合はDefaultMaxSizeを使用する。
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Validator{maxSize: maxSize}
}

// Validate はファイル名の拡張子・宣言メディアタイプ・バイト長を検証する。
// 拡張子とメディアタイプの両方が許可形式に一致しない場合はUNSUPPORTED_MEDIA_TYPE、
// サイズ上限超過の場合はPAYLOAD_TOO_LARGEのAPIErrorを返す。
// どちらか一方の申告だけを信用しないため、両方のチェックを通過する必要がある。
func (v *Validator) Validate(filename, mediaType string, size int64) error {
	if !extensionAllowed(filename) || !mediaTypeAllowed(mediaType) {
		return model.NewUnsupportedMediaTypeError(filename, mediaType)
	}

	if size > v.maxSize {
		return model.NewPayloadTooLargeError(size, v.maxSize)
	}

	return nil
}

// MaxSize は設定されたサイズ上限を返す。
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// extensionAllowed はファイル名の拡張子（小文字化済み）が許可形式か判定する。
func extensionAllowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return allowedFormats[ext]
}

// mediaTypeAllowed は宣言されたメディアタイプが image/{許可形式} か判定する。
func mediaTypeAllowed(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}

	primary, sub, found := strings.Cut(mt, "/")
	if !found || primary != "image" {
		return false
	}
	return allowedFormats[sub]
}
