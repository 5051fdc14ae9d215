package repository

import (
	"testing"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// センチネルエラーが区別可能であることを検証
func TestSentinelErrors_AreDistinct(t *testing.T) {
	if ErrDuplicateUser == ErrUserGone {
		t.Error("ErrDuplicateUser and ErrUserGone must be distinct")
	}
	if ErrDuplicateUser.Error() == "" || ErrUserGone.Error() == "" {
		t.Error("sentinel errors must have messages")
	}
}
