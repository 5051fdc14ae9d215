package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/picboard/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, profile_image, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.ProfileImage, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成する。
// username・emailの一意制約違反の場合はErrDuplicateUserを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, profile_image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Email, user.ProfileImage, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// UpdateProfileImage は指定ユーザーのprofile_imageを更新する。
// 対象ユーザーが存在しない場合はErrUserGoneを返す。
func (r *PostgresUserRepo) UpdateProfileImage(ctx context.Context, userID, ref string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET profile_image = $1, updated_at = now() WHERE id = $2`,
		ref, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserGone
	}
	return nil
}

// ListProfileImageRefs は全ユーザーのprofile_image参照を返す（空文字列は除く）。
func (r *PostgresUserRepo) ListProfileImageRefs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT profile_image FROM users WHERE profile_image <> ''`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile image refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan profile image ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile image refs: %w", err)
	}

	return refs, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
