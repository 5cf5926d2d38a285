package distribution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/blogger/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"

	"github.com/hitoshi/automarketer/internal/metrics"
	"github.com/hitoshi/automarketer/internal/security"
)

// DefaultBlogTitle はタイトル未指定時のブログ記事タイトル。
const DefaultBlogTitle = "New Post from AutoMarketer"

// BlogConfig はブログ投稿クライアントの設定。
type BlogConfig struct {
	BlogID string
	APIKey string
	// Endpoint はAPIのベースURL。空の場合はライブラリ既定のURLを使用する。
	Endpoint string
}

// BlogClient はBlogger API v3で記事を投稿するクライアント。
type BlogClient struct {
	service   *blogger.Service
	blogID    string
	apiKey    string
	sanitizer security.HTMLSanitizer
	metrics   metrics.MetricsCollector
}

// NewBlogClient はBlogClientを生成する。
// APIキーはクエリパラメータとして付与し、通信にはhttpClientのTransportとTimeoutを使用する。
func NewBlogClient(ctx context.Context, httpClient *http.Client, cfg BlogConfig, sanitizer security.HTMLSanitizer, collector metrics.MetricsCollector) (*BlogClient, error) {
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	keyed := &http.Client{
		Transport: &transport.APIKey{Key: cfg.APIKey, Transport: base},
		Timeout:   httpClient.Timeout,
	}

	opts := []option.ClientOption{option.WithHTTPClient(keyed)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := blogger.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create blogger service: %w", err)
	}

	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &BlogClient{
		service:   svc,
		blogID:    cfg.BlogID,
		apiKey:    cfg.APIKey,
		sanitizer: sanitizer,
		metrics:   collector,
	}, nil
}

// Publish は記事を投稿する。titleが空の場合はDefaultBlogTitleを使用する。
// APIがエラーステータスを返した場合も、そのステータスとJSONボディをResponseとして返す。
func (c *BlogClient) Publish(ctx context.Context, title, content string) (*Response, error) {
	if c.blogID == "" || c.apiKey == "" {
		c.metrics.RecordDistribution("blog", 0)
		return nil, ErrNotConfigured
	}
	if title == "" {
		title = DefaultBlogTitle
	}

	post := &blogger.Post{
		Kind:    "blogger#post",
		Title:   title,
		Content: ContentHTML(c.sanitizer, content),
	}

	created, err := c.service.Posts.Insert(c.blogID, post).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			c.metrics.RecordDistribution("blog", apiErr.Code)
			slog.WarnContext(ctx, "blog post rejected", slog.Int("http_status", apiErr.Code))
			return &Response{StatusCode: apiErr.Code, Body: apiErrorBody(apiErr)}, nil
		}
		c.metrics.RecordDistribution("blog", 0)
		slog.ErrorContext(ctx, "blog post request failed", slog.String("error", err.Error()))
		return nil, err
	}

	body, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blog post: %w", err)
	}

	c.metrics.RecordDistribution("blog", http.StatusOK)
	return &Response{StatusCode: http.StatusOK, Body: body}, nil
}

// apiErrorBody はAPIの生のエラーボディを返す。JSONでない場合はコードとメッセージから組み立てる。
func apiErrorBody(apiErr *googleapi.Error) json.RawMessage {
	if apiErr.Body != "" && json.Valid([]byte(apiErr.Body)) {
		return json.RawMessage(apiErr.Body)
	}
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
	return body
}
