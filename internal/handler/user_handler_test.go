package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/picboard/internal/model"
)

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	registerFn func(ctx context.Context, username, email string) (*model.User, error)
	getFn      func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, username, email string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, username, email)
	}
	return &model.User{ID: "user-1", Username: username, Email: email}, nil
}

func (m *mockUserService) Get(ctx context.Context, userID string) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return &model.User{ID: userID}, nil
}

func TestUserHandler_Register_Success(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, username, email string) (*model.User, error) {
			return &model.User{
				ID:        "user-1",
				Username:  username,
				Email:     email,
				CreatedAt: time.Now(),
			}, nil
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"username":"alice","email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, http.StatusCreated, w.Body.String())
	}

	var got userResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "user-1" || got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("response = %+v", got)
	}
}

func TestUserHandler_Register_InvalidJSON(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestUserHandler_Register_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "username欠落", body: `{"email":"alice@example.com"}`},
		{name: "email欠落", body: `{"username":"alice"}`},
		{name: "両方欠落", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mockUserService{})

			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.Register(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, username, email string) (*model.User, error) {
			return nil, model.NewDuplicateUserError()
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"username":"alice","email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestUserHandler_Get_Success(t *testing.T) {
	svc := &mockUserService{
		getFn: func(ctx context.Context, userID string) (*model.User, error) {
			return &model.User{
				ID:           userID,
				Username:     "alice",
				Email:        "alice@example.com",
				ProfileImage: "/uploads/1700000000000-alice.png",
			}, nil
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/user-1", nil)
	req = withURLParam(req, "userID", "user-1")
	w := httptest.NewRecorder()

	h.Get(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got userResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "user-1" || got.ProfileImage != "/uploads/1700000000000-alice.png" {
		t.Errorf("response = %+v", got)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	svc := &mockUserService{
		getFn: func(ctx context.Context, userID string) (*model.User, error) {
			return nil, model.NewUserNotFoundError(userID)
		},
	}

	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	req = withURLParam(req, "userID", "ghost")
	w := httptest.NewRecorder()

	h.Get(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
