package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/picboard/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// Create はメッセージを作成する。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, user_id, content, image, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.UserID, message.Content, message.Image, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListWithUser は全メッセージを投稿ユーザーの表示情報付きでcreated_at降順に返す。
// 投稿ユーザーが削除済みのメッセージも結合フィールドを空のまま返す（読み取りを失敗させない）。
func (r *PostgresMessageRepo) ListWithUser(ctx context.Context) ([]model.MessageWithUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.user_id, m.content, m.image, m.created_at,
		        COALESCE(u.username, ''), COALESCE(u.profile_image, '')
		 FROM messages m
		 LEFT JOIN users u ON u.id = m.user_id
		 ORDER BY m.created_at DESC, m.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.MessageWithUser
	for rows.Next() {
		var m model.MessageWithUser
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Content, &m.Image, &m.CreatedAt,
			&m.Username, &m.ProfileImage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// ListImageRefs は全メッセージのimage参照を返す（空文字列は除く）。
func (r *PostgresMessageRepo) ListImageRefs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT image FROM messages WHERE image <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list message image refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan message image ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message image refs: %w", err)
	}

	return refs, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
