package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/automarketer/internal/auth"
	"github.com/hitoshi/automarketer/internal/catalog"
	"github.com/hitoshi/automarketer/internal/config"
	"github.com/hitoshi/automarketer/internal/database"
	"github.com/hitoshi/automarketer/internal/distribution"
	"github.com/hitoshi/automarketer/internal/draft"
	"github.com/hitoshi/automarketer/internal/generation"
	"github.com/hitoshi/automarketer/internal/handler"
	"github.com/hitoshi/automarketer/internal/logger"
	"github.com/hitoshi/automarketer/internal/metrics"
	"github.com/hitoshi/automarketer/internal/repository"
	"github.com/hitoshi/automarketer/internal/security"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数（と.env）からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		return runHealthcheck(healthcheckPort())
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// マイグレーションを適用してから全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. スキーマの作成（起動時に未適用分を適用する）
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// 2. DB接続
	db, dialect, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established", slog.String("dialect", string(dialect)))

	// 3. ルーターの構築
	router, err := buildRouter(ctx, cfg, db, dialect, slog.Default())
	if err != nil {
		return err
	}

	// 4. HTTPサーバーの起動
	// 生成プロバイダーの呼び出しを待つため、WriteTimeoutは生成タイムアウトより長くとる
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// buildRouter はリポジトリ、ドメインサービス、配信アダプタを組み立ててルーターを返す。
func buildRouter(ctx context.Context, cfg *config.Config, db *sql.DB, dialect database.Dialect, log *slog.Logger) (http.Handler, error) {
	// リポジトリ
	identRepo := repository.NewSQLIdentityRepo(db, dialect)
	productRepo := repository.NewSQLProductRepo(db, dialect)
	draftRepo := repository.NewSQLDraftRepo(db, dialect)

	// メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// ドメインサービス
	authService := auth.NewService(identRepo, auth.NewArgon2Hasher(cfg.Argon2MemoryKiB, cfg.Argon2Time))
	catalogService := catalog.NewService(identRepo, productRepo)

	provider := generation.NewOpenAIProvider(generation.OpenAIConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GenerationBaseURL,
		Model:   cfg.GenerationModel,
		Timeout: cfg.GenerationTimeout,
	})
	draftService := draft.NewService(identRepo, productRepo, draftRepo, provider, collector)

	// 配信アダプタ
	guard := security.NewOutboundGuard(cfg.OutboundGuard)
	for name, endpoint := range map[string]string{
		"ayrshare": cfg.AyrshareEndpoint,
		"brevo":    cfg.BrevoEndpoint,
		"blogger":  cfg.BloggerEndpoint,
	} {
		if endpoint == "" {
			continue
		}
		if err := guard.ValidateEndpoint(endpoint); err != nil {
			log.Warn("distribution endpoint rejected by outbound guard",
				slog.String("target", name),
				slog.String("error", err.Error()),
			)
		}
	}

	httpClient := guard.Client(cfg.DistributionTimeout)
	sanitizer := security.NewOutboundHTMLSanitizer()

	social := distribution.NewSocialClient(httpClient, cfg.AyrshareAPIKey, cfg.AyrshareEndpoint, collector)
	email := distribution.NewEmailClient(httpClient, distribution.EmailConfig{
		APIKey:        cfg.BrevoAPIKey,
		Endpoint:      cfg.BrevoEndpoint,
		SenderName:    cfg.EmailSenderName,
		SenderAddress: cfg.EmailSenderAddress,
	}, sanitizer, collector)
	blog, err := distribution.NewBlogClient(ctx, httpClient, distribution.BlogConfig{
		BlogID:   cfg.BloggerBlogID,
		APIKey:   cfg.BloggerAPIKey,
		Endpoint: cfg.BloggerEndpoint,
	}, sanitizer, collector)
	if err != nil {
		return nil, fmt.Errorf("failed to create blog client: %w", err)
	}

	return handler.NewRouter(&handler.RouterDeps{
		Logger:            log,
		Metrics:           collector,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Gatherer:          reg,
		HealthChecker:     db,

		AuthService:    authService,
		ProductService: catalogService,
		DraftService:   draftService,

		Social: social,
		Email:  email,
		Blog:   blog,

		StaticDir: cfg.StaticDir,
	}), nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// healthcheckPort はヘルスチェック先のポートを環境変数から決定する。
// configと同じくSERVER_PORT、PORTの順に参照する。
func healthcheckPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "5000"
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
// SQLiteのようにユーザー情報を含まないURLはそのまま返す。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
