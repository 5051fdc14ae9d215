package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, media, storage, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	ErrCodeMissingFile          = "MISSING_FILE"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeDuplicateUser        = "DUPLICATE_USER"
	ErrCodeStorageFailure       = "STORAGE_FAILURE"
)

// NewUnsupportedMediaTypeError は許可されていない画像形式のエラーを生成する。
func NewUnsupportedMediaTypeError(filename, mediaType string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedMediaType,
		Message:  fmt.Sprintf("サポートされていない画像形式です: %s (%s)", filename, mediaType),
		Category: "validation",
		Action:   "jpeg、jpg、png、gifのいずれかの形式の画像をアップロードしてください。",
	}
}

// NewPayloadTooLargeError はサイズ上限超過のエラーを生成する。
func NewPayloadTooLargeError(size, limit int64) *APIError {
	return &APIError{
		Code:     ErrCodePayloadTooLarge,
		Message:  fmt.Sprintf("ファイルサイズが上限を超えています: %dバイト（上限%dバイト）", size, limit),
		Category: "validation",
		Action:   "5MiB以下の画像をアップロードしてください。",
	}
}

// NewRequestTooLargeError はリクエストボディの打ち切り時のエラーを生成する。
// 受信を途中で打ち切るため実サイズは分からず、上限のみを報告する。
func NewRequestTooLargeError(limit int64) *APIError {
	return &APIError{
		Code:     ErrCodePayloadTooLarge,
		Message:  fmt.Sprintf("リクエストボディがサイズ上限を超えています（上限%dバイト）", limit),
		Category: "validation",
		Action:   "5MiB以下の画像をアップロードしてください。",
	}
}

// NewMissingFileError はファイル未添付のエラーを生成する。
func NewMissingFileError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingFile,
		Message:  "画像ファイルが添付されていません。",
		Category: "validation",
		Action:   "multipartフィールド「image」にファイルを添付してください。",
	}
}

// NewInvalidRequestError はリクエスト形式不正のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト形式を確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "media",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewDuplicateUserError はユーザー名またはメールアドレスの重複エラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "同じユーザー名またはメールアドレスのユーザーが既に存在します。",
		Category: "validation",
		Action:   "別のユーザー名・メールアドレスを指定してください。",
	}
}

// NewStorageFailureError はファイル保存領域への書き込み・削除失敗のエラーを生成する。
func NewStorageFailureError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeStorageFailure,
		Message:  fmt.Sprintf("ファイルの保存に失敗しました: %s", reason),
		Category: "storage",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
