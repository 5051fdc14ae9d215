// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/picboard/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成する。
	// username・emailの一意制約違反の場合はErrDuplicateUserを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfileImage は指定ユーザーのprofile_imageを更新する。
	// 対象ユーザーが存在しない場合はErrUserGoneを返す。
	UpdateProfileImage(ctx context.Context, userID, ref string) error

	// ListProfileImageRefs は全ユーザーのprofile_image参照を返す（空文字列は除く）。
	// 孤児ファイル掃除で使用する。
	ListProfileImageRefs(ctx context.Context) ([]string, error)
}

// MessageRepository はメッセージデータの永続化インターフェース。
type MessageRepository interface {
	// Create はメッセージを作成する。
	Create(ctx context.Context, message *model.Message) error

	// ListWithUser は全メッセージを投稿ユーザーの表示情報付きでcreated_at降順に返す。
	// 同時刻のメッセージはid降順で順序を固定する。
	// 投稿ユーザーが存在しないメッセージも表示情報なしで返す。
	ListWithUser(ctx context.Context) ([]model.MessageWithUser, error)

	// ListImageRefs は全メッセージのimage参照を返す（空文字列は除く）。
	// 孤児ファイル掃除で使用する。
	ListImageRefs(ctx context.Context) ([]string, error)
}
