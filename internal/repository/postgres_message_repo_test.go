package repository

import (
	"testing"
)

// PostgresMessageRepoはMessageRepositoryインターフェースを満たすことを検証
func TestPostgresMessageRepo_ImplementsInterface(t *testing.T) {
	var _ MessageRepository = (*PostgresMessageRepo)(nil)
}

// NewPostgresMessageRepoが正しく初期化されることを検証
func TestNewPostgresMessageRepo_Initializes(t *testing.T) {
	repo := NewPostgresMessageRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
