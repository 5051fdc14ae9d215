package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/picboard/internal/model"
	"github.com/hitoshi/picboard/internal/upload"
)

// MessageServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type MessageServiceInterface interface {
	// Create はメッセージを作成して返す。fileはnilを許容する。
	Create(ctx context.Context, userID, content string, file *upload.File) (*model.Message, error)
	// List は全メッセージを投稿ユーザーの表示情報付きでcreated_at降順に返す。
	List(ctx context.Context) ([]model.MessageWithUser, error)
}

// MessageHandler はメッセージ投稿・一覧のHTTPハンドラー。
type MessageHandler struct {
	service MessageServiceInterface
	maxSize int64
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(service MessageServiceInterface, maxSize int64) *MessageHandler {
	if maxSize <= 0 {
		maxSize = upload.DefaultMaxSize
	}
	return &MessageHandler{
		service: service,
		maxSize: maxSize,
	}
}

// messageResponse はメッセージのAPIレスポンス。
type messageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// enrichedMessageResponse はメッセージと投稿ユーザーの表示情報のAPIレスポンス。
type enrichedMessageResponse struct {
	messageResponse
	Username     string `json:"username,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Create はメッセージ投稿を処理する。
// POST /messages（multipartフィールド: userId, content, 任意のファイルimage）
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)

	// application/x-www-form-urlencoded（添付なし）も受け付けるため、
	// ErrNotMultipartのみ解析エラーとして扱わない。
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge,
				model.NewRequestTooLargeError(h.maxSize))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("multipartボディの解析に失敗しました"))
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("userIdが指定されていません"))
		return
	}
	content := r.FormValue("content")

	var uploadFile *upload.File
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		uploadFile = &upload.File{
			Filename:  header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Size:      header.Size,
			Content:   file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// 添付なしの投稿（urlencodedボディはFormFileがErrNotMultipartを返す）
	default:
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge,
				model.NewRequestTooLargeError(h.maxSize))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("multipartボディの解析に失敗しました"))
		return
	}

	msg, err := h.service.Create(r.Context(), userID, content, uploadFile)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toMessageResponse(msg))
}

// List はメッセージ一覧を処理する。
// GET /messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]enrichedMessageResponse, len(messages))
	for i, m := range messages {
		results[i] = enrichedMessageResponse{
			messageResponse: toMessageResponse(&m.Message),
			Username:        m.Username,
			ProfileImage:    m.ProfileImage,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// toMessageResponse はドメインのMessageをレスポンス型に変換する。
func toMessageResponse(msg *model.Message) messageResponse {
	return messageResponse{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Content:   msg.Content,
		Image:     msg.Image,
		CreatedAt: msg.CreatedAt,
	}
}
