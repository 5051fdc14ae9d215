package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/picboard/internal/model"
	"github.com/hitoshi/picboard/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
	createFn   func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) UpdateProfileImage(ctx context.Context, userID, ref string) error {
	return nil
}
func (m *mockUserRepo) ListProfileImageRefs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestService_Register_AssignsIDAndTimestamps(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := NewService(repo)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("ID must be assigned")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
	if user.ProfileImage != "" {
		t.Errorf("ProfileImage = %q, want empty on registration", user.ProfileImage)
	}
	if created == nil || created.Username != "alice" || created.Email != "alice@example.com" {
		t.Errorf("persisted user = %+v", created)
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateUser
		},
	}

	svc := NewService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateUser {
		t.Fatalf("Register() = %v, want DUPLICATE_USER", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(repo)

	_, err := svc.Get(context.Background(), "ghost")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("Get() = %v, want USER_NOT_FOUND", err)
	}
}

func TestService_Get_Found(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}

	svc := NewService(repo)

	user, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
}
