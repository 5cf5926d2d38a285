package distribution

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/automarketer/internal/metrics"
)

// DefaultSocialEndpoint はAyrshareの投稿APIのエンドポイント。
const DefaultSocialEndpoint = "https://app.ayrshare.com/api/post"

// defaultImageQuery は商品名が指定されない場合の画像検索語。
const defaultImageQuery = "product"

// SocialPost はSNS投稿の入力。
type SocialPost struct {
	Content  string
	Platform string
	// ImageQuery はInstagram投稿に添付する画像の検索語（商品名や商品説明）。
	ImageQuery string
}

type socialPayload struct {
	Post      string   `json:"post"`
	Platforms []string `json:"platforms"`
	MediaURLs []string `json:"mediaUrls,omitempty"`
}

// SocialClient はAyrshare APIでSNSへ投稿するクライアント。
type SocialClient struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	metrics    metrics.MetricsCollector
}

// NewSocialClient はSocialClientを生成する。endpointが空の場合は既定のエンドポイントを使用する。
func NewSocialClient(httpClient *http.Client, apiKey, endpoint string, collector metrics.MetricsCollector) *SocialClient {
	if endpoint == "" {
		endpoint = DefaultSocialEndpoint
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &SocialClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		endpoint:   endpoint,
		metrics:    collector,
	}
}

// Post はSNSへ投稿する。Instagramの場合は商品画像のURLを添付する。
func (c *SocialClient) Post(ctx context.Context, post SocialPost) (*Response, error) {
	if c.apiKey == "" {
		c.metrics.RecordDistribution("social", 0)
		return nil, ErrNotConfigured
	}

	payload := socialPayload{
		Post:      post.Content,
		Platforms: []string{post.Platform},
	}
	if strings.EqualFold(post.Platform, "instagram") {
		payload.MediaURLs = []string{InstagramImageURL(post.ImageQuery)}
	}

	resp, err := postJSON(ctx, c.httpClient, c.endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, payload)
	if err != nil {
		c.metrics.RecordDistribution("social", 0)
		slog.ErrorContext(ctx, "social post request failed",
			slog.String("platform", post.Platform),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.metrics.RecordDistribution("social", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "social post rejected",
			slog.String("platform", post.Platform),
			slog.Int("http_status", resp.StatusCode),
		)
	}
	return resp, nil
}

// InstagramImageURL は検索語から正方形の商品画像URLを組み立てる。
// 検索語は小文字化し、空白を"+"に置き換える。空の場合は"product"を使用する。
func InstagramImageURL(query string) string {
	if query == "" {
		query = defaultImageQuery
	}
	q := strings.ReplaceAll(strings.ToLower(query), " ", "+")
	return "https://source.unsplash.com/1080x1080/?" + q + ",product,professional"
}
