// Package message はメッセージ投稿・一覧のドメインロジックを提供する。
package message

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/picboard/internal/model"
	"github.com/hitoshi/picboard/internal/repository"
	"github.com/hitoshi/picboard/internal/security"
	"github.com/hitoshi/picboard/internal/upload"
)

// Store はファイル保存領域のインターフェース。
// テスタビリティのためupload.DiskStoreを抽象化する。
type Store interface {
	Put(ctx context.Context, originalFilename string, r io.Reader) (string, error)
}

// MetricsRecorder はアップロードメトリクス収集のインターフェース。
type MetricsRecorder interface {
	RecordUploadAccepted(kind string, size int64)
	RecordUploadRejected(kind string, code string)
	RecordUploadLatency(duration time.Duration)
}

// Service はメッセージ投稿・一覧のサービス層。
type Service struct {
	messageRepo repository.MessageRepository
	store       Store
	validator   *upload.Validator
	sanitizer   security.ContentSanitizerService
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する（テスト用）。
func NewService(
	messageRepo repository.MessageRepository,
	store Store,
	validator *upload.Validator,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		messageRepo: messageRepo,
		store:       store,
		validator:   validator,
		sanitizer:   sanitizer,
		metrics:     metrics,
	}
}

// Create はメッセージを作成して返す。
// fileがnilでない場合は検証 → 保存を行い、得られた参照を添付する。
// 検証に失敗した場合は操作全体を中止し、メッセージは作成されない。
// 添付画像の参照は作成時に一度だけ設定され、以後更新する経路は存在しない。
//
// userIDの実在確認は行わない（呼び出し元の申告をそのまま受け入れる）。
func (s *Service) Create(ctx context.Context, userID, content string, file *upload.File) (*model.Message, error) {
	var imageRef string

	if file != nil {
		if err := s.validator.Validate(file.Filename, file.MediaType, file.Size); err != nil {
			s.recordRejected(err)
			return nil, err
		}

		start := time.Now()
		ref, err := s.store.Put(ctx, file.Filename, file.Content)
		if err != nil {
			return nil, model.NewStorageFailureError(err.Error())
		}
		if s.metrics != nil {
			s.metrics.RecordUploadLatency(time.Since(start))
		}
		imageRef = ref
	}

	msg := &model.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   s.sanitizer.Sanitize(content),
		Image:     imageRef,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		// 保存済みの添付画像は孤児として残るが、どのレコードからも参照されて
		// いないため、掃除ワーカーの回収に任せる。
		if imageRef != "" {
			slog.Warn("メッセージ作成に失敗したため添付画像が孤児になりました",
				slog.String("ref", imageRef),
			)
		}
		return nil, fmt.Errorf("メッセージの作成に失敗しました: %w", err)
	}

	if file != nil && s.metrics != nil {
		s.metrics.RecordUploadAccepted("message_image", file.Size)
	}

	return msg, nil
}

// List は全メッセージを投稿ユーザーの表示情報付きでcreated_at降順に返す。
// 投稿ユーザーが存在しないメッセージも結合フィールドを空のまま返す。
func (s *Service) List(ctx context.Context) ([]model.MessageWithUser, error) {
	messages, err := s.messageRepo.ListWithUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("メッセージ一覧の取得に失敗しました: %w", err)
	}
	return messages, nil
}

// recordRejected は検証拒否をメトリクスに記録する。
func (s *Service) recordRejected(err error) {
	if s.metrics == nil {
		return
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		s.metrics.RecordUploadRejected("message_image", apiErr.Code)
	}
}
