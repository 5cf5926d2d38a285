package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort        string
	CORSAllowedOrigin string
	StaticDir         string

	// Generation（OpenAI互換エンドポイント経由のGemini）
	GeminiAPIKey      string
	GenerationBaseURL string
	GenerationModel   string
	GenerationTimeout time.Duration

	// Social（Ayrshare）
	AyrshareAPIKey   string
	AyrshareEndpoint string

	// Email（Brevo）
	BrevoAPIKey        string
	BrevoEndpoint      string
	EmailSenderName    string
	EmailSenderAddress string

	// Blog（Blogger）
	BloggerBlogID   string
	BloggerAPIKey   string
	BloggerEndpoint string

	// Distribution
	DistributionTimeout time.Duration
	OutboundGuard       bool

	// Password
	Argon2MemoryKiB uint32
	Argon2Time      uint32
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envが存在する場合は先に読み込む（既存の環境変数は上書きしない）。
// 必須の環境変数はなく、未設定の秘密情報は各アダプタの呼び出し時に失敗として扱われる。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.DatabaseURL = getEnvString("DATABASE_URL", "sqlite://msme.db")

	// PORTは従来のデプロイ先との互換のため、SERVER_PORTより優先度を低くして受け付ける
	cfg.ServerPort = getEnvString("SERVER_PORT", getEnvString("PORT", "5000"))
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.StaticDir = getEnvString("STATIC_DIR", "static")

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GenerationBaseURL = getEnvString("GENERATION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	cfg.GenerationModel = getEnvString("GENERATION_MODEL", "gemini-2.5-flash")
	cfg.GenerationTimeout = getEnvDuration("GENERATION_TIMEOUT", 60*time.Second)

	cfg.AyrshareAPIKey = os.Getenv("AYRSHARE_API_KEY")
	cfg.AyrshareEndpoint = getEnvString("AYRSHARE_ENDPOINT", "https://app.ayrshare.com/api/post")

	cfg.BrevoAPIKey = os.Getenv("BREVO_API_KEY")
	cfg.BrevoEndpoint = getEnvString("BREVO_ENDPOINT", "https://api.brevo.com/v3/smtp/email")
	cfg.EmailSenderName = getEnvString("EMAIL_SENDER_NAME", "AutoMarketer")
	cfg.EmailSenderAddress = os.Getenv("EMAIL_SENDER_ADDRESS")

	cfg.BloggerBlogID = os.Getenv("BLOGGER_BLOG_ID")
	cfg.BloggerAPIKey = os.Getenv("BLOGGER_API_KEY")
	cfg.BloggerEndpoint = os.Getenv("BLOGGER_ENDPOINT")

	cfg.DistributionTimeout = getEnvDuration("DISTRIBUTION_TIMEOUT", 30*time.Second)
	cfg.OutboundGuard = getEnvBool("OUTBOUND_GUARD", true)

	cfg.Argon2MemoryKiB = uint32(getEnvInt("PASSWORD_ARGON2_MEMORY_KIB", 64*1024))
	cfg.Argon2Time = uint32(getEnvInt("PASSWORD_ARGON2_TIME", 1))

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
