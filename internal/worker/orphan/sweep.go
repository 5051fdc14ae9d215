// Package orphan はどのレコードからも参照されていない保存済みファイルの回収を提供する。
//
// プロフィール画像の差し替え中に参照の付け替えが失敗した場合や、メッセージ作成が
// 添付画像の保存後に失敗した場合、保存領域には参照されないファイルが残る。
// これらはユーザーからは見えないが保存領域のリークであるため、定期的に回収する。
package orphan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"
)

// ProfileImageRefLister はユーザーのプロフィール画像参照の一覧インターフェース。
type ProfileImageRefLister interface {
	ListProfileImageRefs(ctx context.Context) ([]string, error)
}

// MessageImageRefLister はメッセージの添付画像参照の一覧インターフェース。
type MessageImageRefLister interface {
	ListImageRefs(ctx context.Context) ([]string, error)
}

// MetricsRecorder は回収メトリクス収集のインターフェース。
type MetricsRecorder interface {
	RecordOrphansSwept(count int)
}

// SweepJob は保存ディレクトリを走査し、孤児ファイルを削除するジョブ。
// 書き込み直後でまだレコードに結び付く前のファイルを誤って消さないよう、
// 最終更新からminAge以上経過したファイルのみを対象とする。
type SweepJob struct {
	userRefs    ProfileImageRefLister
	messageRefs MessageImageRefLister
	dir         string
	minAge      time.Duration
	logger      *slog.Logger
	metrics     MetricsRecorder
}

// NewSweepJob はSweepJobを生成する。
// metricsはnilを許容する。
func NewSweepJob(
	userRefs ProfileImageRefLister,
	messageRefs MessageImageRefLister,
	dir string,
	minAge time.Duration,
	logger *slog.Logger,
	metrics MetricsRecorder,
) *SweepJob {
	return &SweepJob{
		userRefs:    userRefs,
		messageRefs: messageRefs,
		dir:         dir,
		minAge:      minAge,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run は1回の回収サイクルを実行する。
// 参照一覧の取得に失敗した場合は何も削除せずにエラーを返す
// （参照の見落としによる誤削除を防ぐため、部分的な参照一覧では走査しない）。
func (j *SweepJob) Run(ctx context.Context) error {
	referenced, err := j.collectReferences(ctx)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return fmt.Errorf("failed to read upload directory: %w", err)
	}

	cutoff := time.Now().Add(-j.minAge)
	swept := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if referenced[entry.Name()] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil {
			j.logger.Warn("failed to remove orphan file",
				slog.String("name", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		swept++
	}

	if swept > 0 {
		j.logger.Info("orphan sweep completed",
			slog.Int("swept", swept),
			slog.Int("scanned", len(entries)),
		)
	}
	if j.metrics != nil && swept > 0 {
		j.metrics.RecordOrphansSwept(swept)
	}

	return nil
}

// Start は指定間隔で回収サイクルを繰り返し実行する。
// 起動直後に1回実行し、以降はintervalごとに実行する。
// ctxのキャンセルで停止する（ブロッキング）。
func (j *SweepJob) Start(ctx context.Context, interval time.Duration) {
	if err := j.Run(ctx); err != nil {
		j.logger.Error("orphan sweep failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("orphan sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// collectReferences はレコードストアに存在する全参照のオブジェクト名集合を返す。
func (j *SweepJob) collectReferences(ctx context.Context) (map[string]bool, error) {
	profileRefs, err := j.userRefs.ListProfileImageRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile image refs: %w", err)
	}

	messageRefs, err := j.messageRefs.ListImageRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list message image refs: %w", err)
	}

	referenced := make(map[string]bool, len(profileRefs)+len(messageRefs))
	for _, ref := range profileRefs {
		referenced[path.Base(ref)] = true
	}
	for _, ref := range messageRefs {
		referenced[path.Base(ref)] = true
	}

	return referenced, nil
}
