package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/picboard/internal/model"
	"github.com/hitoshi/picboard/internal/upload"
)

// MediaServiceInterface はメディアハンドラーが必要とするサービスインターフェース。
type MediaServiceInterface interface {
	// SetProfileImage はユーザーのプロフィール画像を差し替え、新しい参照を返す。
	SetProfileImage(ctx context.Context, userID string, file *upload.File) (string, error)
}

// MediaHandler はプロフィール画像アップロードのHTTPハンドラー。
type MediaHandler struct {
	service MediaServiceInterface
	maxSize int64
}

// NewMediaHandler はMediaHandlerを生成する。
// maxSizeはmultipartボディ全体の受信上限の算出に使用する。
func NewMediaHandler(service MediaServiceInterface, maxSize int64) *MediaHandler {
	if maxSize <= 0 {
		maxSize = upload.DefaultMaxSize
	}
	return &MediaHandler{
		service: service,
		maxSize: maxSize,
	}
}

// profileImageResponse はプロフィール画像更新のAPIレスポンス。
type profileImageResponse struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profileImage"`
}

// multipartOverhead はmultipart境界・ヘッダー分の受信猶予。
const multipartOverhead = 1 << 20

// SetProfileImage はプロフィール画像の差し替えを処理する。
// PUT /users/{userID}/profile-image
func (h *MediaHandler) SetProfileImage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	// ボディ全体をサイズ上限+猶予で打ち切る。検証前に無制限に受信しない。
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge,
				model.NewRequestTooLargeError(h.maxSize))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFileError())
		return
	}
	defer file.Close()

	ref, err := h.service.SetProfileImage(r.Context(), userID, &upload.File{
		Filename:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Size:      header.Size,
		Content:   file,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileImageResponse{
		Message:      "プロフィール画像を更新しました。",
		ProfileImage: ref,
	})
}
