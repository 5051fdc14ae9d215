package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/picboard/internal/middleware"
)

// HealthChecker はヘルスチェックでのDB疎通確認インターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	StatusMetrics     middleware.StatusMetricsRecorder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック
	HealthChecker HealthChecker

	// サービス
	MediaService   MediaServiceInterface
	MessageService MessageServiceInterface
	UserService    UserServiceInterface

	// アップロード
	UploadDir     string
	UploadMaxSize int64
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → Recovery → Logging → RateLimit(General)
//
// アップロードを伴うエンドポイントにはアップロード専用レート制限を追加する。
// /health と /uploads/* はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusMetrics))

	mediaHandler := NewMediaHandler(deps.MediaService, deps.UploadMaxSize)
	messageHandler := NewMessageHandler(deps.MessageService, deps.UploadMaxSize)
	userHandler := NewUserHandler(deps.UserService)

	// ヘルスチェック
	r.Get("/health", healthHandler(deps.HealthChecker))

	// 保存済みファイルの静的配信
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(deps.UploadDir))))

	// APIルート
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール画像（アップロード専用レート制限を追加）
		r.With(deps.RateLimiter.UploadMiddleware()).
			Put("/users/{userID}/profile-image", mediaHandler.SetProfileImage)

		// ユーザー管理
		r.Post("/users", userHandler.Register)
		r.Get("/users/{userID}", userHandler.Get)

		// メッセージ
		r.With(deps.RateLimiter.UploadMiddleware()).
			Post("/messages", messageHandler.Create)
		r.Get("/messages", messageHandler.List)
	})

	return r
}

// healthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
