package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// RefPrefix は保存済みファイル参照のURLパス接頭辞。
// 参照は常に RefPrefix + "/" + オブジェクト名 の形式をとる。
const RefPrefix = "/uploads"

// DiskStore はローカルディスクへのファイル保存を提供する。
// オブジェクト名は ミリ秒タイムスタンプ + 元ファイル名 の連結で、
// 同一ミリ秒内の衝突は連番コンポーネントで回避する。
type DiskStore struct {
	dir string
	seq atomic.Uint64
}

// NewDiskStore はDiskStoreを生成する。
// 保存ディレクトリが存在しない場合は作成する（冪等、並行初回利用でも安全）。
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir は保存ディレクトリのパスを返す。
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put はアップロードの全バイトをディスクに書き込み、配信可能な参照を返す。
// 書き込みが完了するまで返らないため、部分書き込みオブジェクトへの参照が
// 発行されることはない。書き込み途中で失敗した場合は残骸を削除して返す。
func (s *DiskStore) Put(ctx context.Context, originalFilename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := sanitizeFilename(originalFilename)
	millis := time.Now().UnixMilli()

	f, name, err := s.createExclusive(millis, base)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	return RefPrefix + "/" + name, nil
}

// Delete は参照が指すファイルを削除する。
// ファイルが存在しない場合はエラーとせずnilを返す（冪等削除）。
func (s *DiskStore) Delete(ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

// createExclusive は衝突しないオブジェクト名でファイルを排他作成する。
// まず {millis}-{base} を試し、既に存在する場合は連番を挟んだ
// {millis}-{seq}-{base} で再試行する。
func (s *DiskStore) createExclusive(millis int64, base string) (*os.File, string, error) {
	name := fmt.Sprintf("%d-%s", millis, base)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, name, nil
	}
	if !os.IsExist(err) {
		return nil, "", err
	}

	for {
		name = fmt.Sprintf("%d-%d-%s", millis, s.seq.Add(1), base)
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", err
		}
	}
}

// sanitizeFilename は元ファイル名からパス要素を取り除く。
// 空になった場合は "upload" を使用する。
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return base
}
