package distribution

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/automarketer/internal/metrics"
	"github.com/hitoshi/automarketer/internal/security"
)

// DefaultEmailEndpoint はBrevoのトランザクションメール送信APIのエンドポイント。
const DefaultEmailEndpoint = "https://api.brevo.com/v3/smtp/email"

// EmailConfig はメール送信クライアントの設定。
type EmailConfig struct {
	APIKey        string
	Endpoint      string
	SenderName    string
	SenderAddress string
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailPayload struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// EmailClient はBrevo APIでプロモーションメールを送信するクライアント。
type EmailClient struct {
	httpClient *http.Client
	cfg        EmailConfig
	sanitizer  security.HTMLSanitizer
	metrics    metrics.MetricsCollector
}

// NewEmailClient はEmailClientを生成する。
func NewEmailClient(httpClient *http.Client, cfg EmailConfig, sanitizer security.HTMLSanitizer, collector metrics.MetricsCollector) *EmailClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailEndpoint
	}
	if cfg.SenderName == "" {
		cfg.SenderName = "AutoMarketer"
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &EmailClient{
		httpClient: httpClient,
		cfg:        cfg,
		sanitizer:  sanitizer,
		metrics:    collector,
	}
}

// Subject はメールの件名を返す。
func (c *EmailClient) Subject() string {
	return "Exclusive Offer from " + c.cfg.SenderName
}

// Send は文面をHTMLメールに整形して1件の宛先へ送信する。
// APIキーか送信元アドレスが未設定の場合は外部APIを呼ばずにErrNotConfiguredを返す。
func (c *EmailClient) Send(ctx context.Context, recipient, content string) (*Response, error) {
	if c.cfg.APIKey == "" || c.cfg.SenderAddress == "" {
		c.metrics.RecordDistribution("email", 0)
		return nil, ErrNotConfigured
	}

	htmlContent, err := EmailHTML(c.cfg.SenderName, ContentHTML(c.sanitizer, content))
	if err != nil {
		return nil, err
	}

	payload := emailPayload{
		Sender:      emailAddress{Name: c.cfg.SenderName, Email: c.cfg.SenderAddress},
		To:          []emailAddress{{Email: recipient}},
		Subject:     c.Subject(),
		HTMLContent: htmlContent,
	}

	resp, err := postJSON(ctx, c.httpClient, c.cfg.Endpoint, map[string]string{
		"api-key": c.cfg.APIKey,
	}, payload)
	if err != nil {
		c.metrics.RecordDistribution("email", 0)
		slog.ErrorContext(ctx, "email send request failed", slog.String("error", err.Error()))
		return nil, err
	}

	c.metrics.RecordDistribution("email", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		slog.WarnContext(ctx, "email send rejected", slog.Int("http_status", resp.StatusCode))
	}
	return resp, nil
}
