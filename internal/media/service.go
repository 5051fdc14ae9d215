// Package media はプロフィール画像の登録・差し替えのドメインロジックを提供する。
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hitoshi/picboard/internal/model"
	"github.com/hitoshi/picboard/internal/repository"
	"github.com/hitoshi/picboard/internal/upload"
)

// Store はファイル保存領域のインターフェース。
// テスタビリティのためupload.DiskStoreを抽象化する。
type Store interface {
	Put(ctx context.Context, originalFilename string, r io.Reader) (string, error)
	Delete(ref string) error
}

// MetricsRecorder はアップロードメトリクス収集のインターフェース。
type MetricsRecorder interface {
	RecordUploadAccepted(kind string, size int64)
	RecordUploadRejected(kind string, code string)
	RecordUploadLatency(duration time.Duration)
	RecordFileDeleted()
}

// Service はプロフィール画像差し替えのサービス層。
// 検証 → 所有者確認 → 新画像保存 → 参照の付け替え → 旧画像削除のフローを統括する。
type Service struct {
	userRepo  repository.UserRepository
	store     Store
	validator *upload.Validator
	metrics   MetricsRecorder
	locks     *userLocks
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する（テスト用）。
func NewService(userRepo repository.UserRepository, store Store, validator *upload.Validator, metrics MetricsRecorder) *Service {
	return &Service{
		userRepo:  userRepo,
		store:     store,
		validator: validator,
		metrics:   metrics,
		locks:     newUserLocks(),
	}
}

// SetProfileImage はユーザーのプロフィール画像を差し替え、新しい参照を返す。
//
// フロー:
//  1. メタデータ検証。失敗時は保存領域もレコードも変更しない。
//  2. ユーザーの存在確認。不在時はファイルを保存せずに終了する
//     （所有者が確認できるまでバイト列を保存しないため、孤児ファイルは発生しない）。
//  3. 新しい画像を保存し、新参照を取得する。
//  4. レコードのprofile_imageを新参照に更新する。
//  5. 更新成功後にのみ、元の画像（あれば）を削除する。
//     新参照が永続化される前に旧画像を消さないため、途中失敗しても
//     ユーザーがどちらの画像も失うことはない。
//
// 同一ユーザーに対する並行呼び出しはユーザー単位のロックで直列化される。
func (s *Service) SetProfileImage(ctx context.Context, userID string, file *upload.File) (string, error) {
	// 1. 検証（ロック外。保存領域に触れない純粋な判定）
	if err := s.validator.Validate(file.Filename, file.MediaType, file.Size); err != nil {
		s.recordRejected(err)
		return "", err
	}

	s.locks.acquire(userID)
	defer s.locks.release(userID)

	// 2. 所有者確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", model.NewUserNotFoundError(userID)
	}

	oldRef := user.ProfileImage

	// 3. 新画像の保存
	start := time.Now()
	newRef, err := s.store.Put(ctx, file.Filename, file.Content)
	if err != nil {
		return "", model.NewStorageFailureError(err.Error())
	}
	if s.metrics != nil {
		s.metrics.RecordUploadLatency(time.Since(start))
	}

	// 4. 参照の付け替え
	if err := s.userRepo.UpdateProfileImage(ctx, userID, newRef); err != nil {
		if errors.Is(err, repository.ErrUserGone) {
			// 所有者確認後にユーザーが消えた場合。保存したばかりのファイルを
			// 孤児として残さないよう、この失敗経路では能動的に掃除する。
			if delErr := s.store.Delete(newRef); delErr != nil {
				slog.Warn("孤児ファイルの掃除に失敗しました",
					slog.String("ref", newRef),
					slog.String("error", delErr.Error()),
				)
			}
			return "", model.NewUserNotFoundError(userID)
		}
		// 他の永続化失敗では新ファイルが孤児として残るが、ユーザーからは
		// 参照されておらず旧画像も無傷のため、掃除ワーカーの回収に任せる。
		return "", fmt.Errorf("プロフィール画像参照の更新に失敗しました: %w", err)
	}

	// 5. 旧画像の削除（参照の付け替えが完了した後にのみ行う）
	if oldRef != "" {
		if err := s.store.Delete(oldRef); err != nil {
			// 削除失敗はユーザー可視のエラーにしない。孤児として掃除ワーカーが回収する。
			slog.Warn("旧プロフィール画像の削除に失敗しました",
				slog.String("user_id", userID),
				slog.String("ref", oldRef),
				slog.String("error", err.Error()),
			)
		} else if s.metrics != nil {
			s.metrics.RecordFileDeleted()
		}
	}

	if s.metrics != nil {
		s.metrics.RecordUploadAccepted("profile_image", file.Size)
	}

	slog.Info("プロフィール画像を更新しました",
		slog.String("user_id", userID),
		slog.String("ref", newRef),
	)

	return newRef, nil
}

// recordRejected は検証拒否をメトリクスに記録する。
func (s *Service) recordRejected(err error) {
	if s.metrics == nil {
		return
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		s.metrics.RecordUploadRejected("profile_image", apiErr.Code)
	}
}
