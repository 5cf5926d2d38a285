package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/automarketer/internal/metrics"
	"github.com/hitoshi/automarketer/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	CORSAllowedOrigin string

	// Gatherer が設定されている場合は GET /metrics を公開する
	Gatherer prometheus.Gatherer

	// HealthChecker はnilでもよい
	HealthChecker HealthChecker

	AuthService    AuthServiceInterface
	ProductService ProductServiceInterface
	DraftService   DraftServiceInterface

	// 配信
	Social SocialPoster
	Email  EmailSender
	Blog   BlogPublisher

	// StaticDir が空の場合はフロントエンドを配信しない
	StaticDir string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	healthHandler := NewHealthHandler(deps.HealthChecker)
	authHandler := NewAuthHandler(deps.AuthService)
	productHandler := NewProductHandler(deps.ProductService)
	draftHandler := NewDraftHandler(deps.DraftService)
	distHandler := NewDistributionHandler(deps.Social, deps.Email, deps.Blog)

	r.Get("/health", healthHandler.Health)

	// アカウント
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)

	// 商品
	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// 文面生成・ドラフト
	r.Post("/generate", draftHandler.Generate)
	r.Get("/drafts", draftHandler.ListDrafts)

	// 配信
	r.Post("/post_social", distHandler.PostSocial)
	r.Post("/generate_and_post_instagram", distHandler.GenerateAndPostInstagram)
	r.Post("/send_email", distHandler.SendEmail)
	r.Post("/post_blog", distHandler.PostBlog)

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	if deps.StaticDir != "" {
		r.Get("/*", NewStaticHandler(deps.StaticDir).ServeHTTP)
	}

	return r
}
