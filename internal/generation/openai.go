package generation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig はOpenAI互換エンドポイントの接続設定。
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// HTTPClient はテスト時の差し替え用。nilの場合はライブラリ既定のクライアントを使用する。
	HTTPClient *http.Client
}

// OpenAIProvider はOpenAI互換のChat Completions APIでテキストを生成するProvider実装。
// GeminiのOpenAI互換エンドポイントを既定の接続先とする。
type OpenAIProvider struct {
	client     openai.Client
	model      string
	configured bool
}

// NewOpenAIProvider はOpenAIProviderを生成する。
// リトライは行わず、Timeoutが指定された場合は1リクエストあたりの上限として適用する。
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIProvider{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		configured: cfg.APIKey != "",
	}
}

// Model は使用するモデル名を返す。
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Generate はプロンプトを1件のユーザーメッセージとして送信し、応答テキストを前後の空白を除いて返す。
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) Result {
	if !p.configured {
		return p.fail(ErrNotConfigured)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			slog.WarnContext(ctx, "generation api error",
				slog.String("model", p.model),
				slog.Int("status_code", apiErr.StatusCode),
			)
		}
		return p.fail(err)
	}

	if len(resp.Choices) == 0 {
		return p.fail(errors.New("no choices in response"))
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return p.fail(errors.New("empty content in response"))
	}

	slog.DebugContext(ctx, "generation completed",
		slog.String("model", p.model),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return Result{Text: text}
}

func (p *OpenAIProvider) fail(err error) Result {
	return Result{Err: &ProviderError{Model: p.model, Err: err}}
}

// compile-time interface check
var _ Provider = (*OpenAIProvider)(nil)
